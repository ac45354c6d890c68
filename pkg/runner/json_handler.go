package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// Message types written by JSONHandler, one JSON object per line.
const (
	MessageTurn   = "turn"
	MessagePrompt = "prompt"
	MessageSignal = "signal"
	MessageSystem = "system"
	MessageReport = "report"
)

// Message is one line of JSONHandler output.
type Message struct {
	Type    string         `json:"type"`
	Turn    *domain.Turn   `json:"turn,omitempty"`
	Label   string         `json:"label,omitempty"`
	Prompt  string         `json:"prompt,omitempty"`
	Name    string         `json:"name,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Message string         `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	inputChan chan inputResult
	startOnce sync.Once
	mu        sync.Mutex
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(msg)
}

func (h *JSONHandler) Output(ctx context.Context, roles domain.RoleSet, turns []domain.Turn) error {
	for i := range turns {
		turn := turns[i]
		if err := h.emit(Message{Type: MessageTurn, Turn: &turn, Label: roles.Label(turn.Speaker)}); err != nil {
			return err
		}
	}
	return nil
}

// Input emits a prompt message and reads one line. The line may be a JSON
// string or raw text.
func (h *JSONHandler) Input(ctx context.Context, prompt string) (string, error) {
	if err := h.emit(Message{Type: MessagePrompt, Prompt: prompt}); err != nil {
		return "", err
	}

	h.startOnce.Do(func() {
		h.inputChan = startPump(h.Reader)
	})

	var res inputResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		res = r
	}
	if res.err != nil {
		return "", res.err
	}

	text := strings.TrimSpace(res.text)

	// Try to unquote if it's a JSON string
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}

	return SanitizeInput(strings.TrimSpace(text))
}

func (h *JSONHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	return h.emit(Message{Type: MessageSignal, Name: name, Args: args})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Message{Type: MessageSystem, Message: msg})
}

func (h *JSONHandler) Report(ctx context.Context, markdown string) error {
	return h.emit(Message{Type: MessageReport, Message: markdown})
}
