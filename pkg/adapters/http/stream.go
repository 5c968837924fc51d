package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/vending/pkg/domain"
)

// SubscribeEvents handles the GET /events request (SSE).
//
// The stream opens with a "snapshot" event carrying the whole run, then sends
// one diff per change. The optional watch parameter (comma separated: level,
// log, status, change) drops diffs that touch none of the listed groups.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ctx := r.Context()
	updates, err := s.Engine.Subscribe(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Subscribe error: %v", err), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	last := s.Engine.Snapshot()
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if data, err := json.Marshal(last); err == nil {
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	}
	flusher.Flush()

	s.Logger.Info("SSE: Client subscribed", "run_id", last.RunID)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case next, ok := <-updates:
			if !ok {
				return
			}
			diff := domain.Diff(&last, &next)
			last = next
			if diff == nil || !matchesWatch(diff, watchList) {
				continue
			}

			data, err := json.Marshal(diff)
			if err != nil {
				s.Logger.Error("SSE: diff encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func matchesWatch(diff *domain.StateDiff, watchList []string) bool {
	if len(watchList) == 0 || diff.Reset {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "level":
			if diff.Current != nil || diff.Remaining != nil {
				return true
			}
		case "log":
			if len(diff.Appended) > 0 {
				return true
			}
		case "status":
			if diff.Accepting != nil || diff.Delivered != nil || diff.Busy != nil {
				return true
			}
		case "change":
			if diff.Change != nil {
				return true
			}
		}
	}
	return false
}
