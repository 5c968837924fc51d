package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/vending/pkg/domain"
)

// Message is one line of JSON output.
type Message struct {
	Type    string           `json:"type"`
	State   *domain.RunState `json:"state,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Request is one line of JSON input, such as {"op":"insert_coin","coin":10}.
type Request struct {
	Op   string `json:"op"`
	Coin int    `json:"coin,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
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

func (h *JSONHandler) Output(ctx context.Context, run domain.RunState) error {
	return h.Encoder.Encode(Message{Type: "state", State: &run})
}

// Input reads a line holding a Request object, a JSON string or plain text,
// and returns it as a text command.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		var req Request
		if strings.HasPrefix(text, "{") {
			if json.Unmarshal([]byte(text), &req) != nil {
				// Surfaces as an unknown command.
				return text, nil
			}
			if req.Op == string(CommandInsert) {
				return fmt.Sprintf("coin %d", req.Coin), nil
			}
			return req.Op, nil
		}

		// Try to unquote if it's a JSON string
		var val string
		if json.Unmarshal([]byte(text), &val) == nil {
			return val, nil
		}

		// Fallback: return raw text (e.g. if they just sent plain text)
		return text, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: "system", Message: msg})
}
