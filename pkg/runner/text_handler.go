package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Styler   LabelStyler

	inputChan chan inputResult
	startOnce sync.Once
	mu        sync.Mutex
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerStyler configures how speaker labels are decorated.
func WithTextHandlerStyler(styler LabelStyler) TextHandlerOption {
	return func(h *TextHandler) {
		h.Styler = styler
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = startPump(h.Reader)
	})
}

// startPump reads lines in the background so Input can honour ctx
// cancellation. The channel is closed on EOF.
func startPump(r *bufio.Reader) chan inputResult {
	ch := make(chan inputResult)
	go func() {
		for {
			text, err := r.ReadString('\n')

			// If we got text (even with EOF), send it
			if text != "" {
				ch <- inputResult{text: text}
			}

			if err != nil {
				if err == io.EOF {
					close(ch)
					return
				}
				ch <- inputResult{err: err}
				// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
				time.Sleep(50 * time.Millisecond)
			}
		}
	}()
	return ch
}

func (h *TextHandler) Output(ctx context.Context, roles domain.RoleSet, turns []domain.Turn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, turn := range turns {
		role, ok := roles.Lookup(turn.Speaker)
		if !ok {
			role = domain.Role{Label: string(turn.Speaker)}
		}
		if role.Label == "" {
			role.Label = string(turn.Speaker)
		}

		label := role.Label
		if h.Styler != nil {
			label = h.Styler(turn.Speaker, role)
		}

		body := turn.Content
		if h.Renderer != nil {
			if rendered, err := h.Renderer(body); err == nil {
				body = rendered
			}
		}
		if _, err := fmt.Fprintf(h.Writer, "\n%s\n%s\n", label, strings.TrimSpace(body)); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context, prompt string) (string, error) {
	// Ensure the pump is running
	h.initPump()

	if prompt == "" {
		prompt = domain.DefaultPrompt
	}

	for {
		// Only show prompt if context is not yet done
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			h.mu.Lock()
			fmt.Fprintf(h.Writer, "\n%s\n> ", prompt)
			h.mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				h.mu.Lock()
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				h.mu.Unlock()
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch name {
	case SignalThinking:
		if active, _ := args["active"].(bool); active {
			speaker, _ := args["speaker"].(string)
			if speaker == "" {
				speaker = "The court"
			}
			_, err := fmt.Fprintf(h.Writer, "\n%s is thinking...\n", speaker)
			return err
		}
	case SignalFinished:
		_, err := fmt.Fprintln(h.Writer, "\n--- The hearing has concluded ---")
		return err
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

func (h *TextHandler) Report(ctx context.Context, markdown string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", strings.TrimSpace(output))
	return err
}
