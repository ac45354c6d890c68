package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/runner"
)

// Frame types exchanged over the session socket.
const (
	FrameDiff   = "diff"
	FrameEnd    = "end"
	FrameAck    = "ack"
	FrameError  = "error"
	FrameSubmit = "submit"
	FrameClose  = "close"
)

// Frame is one message on the session socket. Server frames carry a Diff,
// an Ack or an Error; client frames are submit (with Text) or close.
type Frame struct {
	Type     string               `json:"type"`
	Diff     *domain.SnapshotDiff `json:"diff,omitempty"`
	Text     string               `json:"text,omitempty"`
	Accepted *bool                `json:"accepted,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// sessionSocket streams diffs to the client and accepts submissions on the
// same connection. The socket closes normally once the hearing is over.
func (s *Server) sessionSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	entry, err := s.Sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     s.originPatterns(),
		InsecureSkipVerify: len(s.origins) == 0,
	})
	if err != nil {
		s.Logger.Warn("WS: upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(int64(2*runner.MaxInputSize() + 1024))
	s.Logger.Info("WS: client connected", "session_id", id)

	// Writes come from both goroutines; out serialises them.
	out := make(chan Frame, 16)
	stopped := make(chan struct{})
	g, ctx := errgroup.WithContext(r.Context())

	send := func(f Frame) error {
		select {
		case out <- f:
			return nil
		case <-stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g.Go(func() error {
		err := watchDiffs(ctx, entry.Session, func(d *domain.SnapshotDiff) error {
			return send(Frame{Type: FrameDiff, Diff: d})
		})
		if err != nil {
			return err
		}
		return send(Frame{Type: FrameEnd})
	})

	g.Go(func() error {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case f := <-out:
				if err := wsjson.Write(ctx, conn, f); err != nil {
					return err
				}
				if f.Type == FrameEnd {
					return conn.Close(websocket.StatusNormalClosure, "hearing concluded")
				}
			}
		}
	})

	g.Go(func() error {
		for {
			var f Frame
			if err := wsjson.Read(ctx, conn, &f); err != nil {
				return err
			}
			reply, done := s.handleFrame(ctx, id, f)
			if reply != nil {
				if err := send(*reply); err != nil {
					return err
				}
			}
			if done {
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil && !isNormalClose(err) {
		s.Logger.Info("WS: client disconnected", "session_id", id, "err", err)
		return
	}
	s.Logger.Info("WS: stream ended", "session_id", id)
}

// handleFrame applies one client frame. done reports that the reader should stop.
func (s *Server) handleFrame(ctx context.Context, id string, f Frame) (reply *Frame, done bool) {
	switch f.Type {
	case FrameSubmit:
		text, err := runner.SanitizeInput(f.Text)
		if err != nil {
			return &Frame{Type: FrameError, Error: err.Error()}, false
		}
		accepted, err := s.Sessions.Submit(ctx, id, text)
		if err != nil {
			return &Frame{Type: FrameError, Error: err.Error()}, errors.Is(err, domain.ErrSessionNotFound)
		}
		return &Frame{Type: FrameAck, Accepted: &accepted}, false
	case FrameClose:
		if err := s.Sessions.Close(ctx, id); err != nil {
			return &Frame{Type: FrameError, Error: err.Error()}, true
		}
		// The writer sees the closed session and ends the stream.
		return nil, true
	default:
		return &Frame{Type: FrameError, Error: "unknown frame type " + f.Type}, false
	}
}

func (s *Server) originPatterns() []string {
	patterns := make([]string, 0, len(s.origins))
	for _, o := range s.origins {
		o = strings.TrimPrefix(o, "https://")
		patterns = append(patterns, strings.TrimPrefix(o, "http://"))
	}
	return patterns
}

func isNormalClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return errors.Is(err, context.Canceled)
}
