package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/sse"
)

const (
	paydayTopic          = "payday"
	paydayCompletedEvent = "payday.completed"
	keepaliveInterval    = 30 * time.Second
)

type EventsHandler interface {
	StreamPayday(w http.ResponseWriter, r *http.Request)
}

// PaydayEvents streams finished payday runs to connected managers. It is
// the runner's RunObserver.
type PaydayEvents struct {
	hub       *sse.Hub
	logger    *slog.Logger
	keepalive time.Duration
}

func NewPaydayEvents(hub *sse.Hub, logger *slog.Logger) *PaydayEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaydayEvents{hub: hub, logger: logger, keepalive: keepaliveInterval}
}

// PaydayRunFinished implements payroll.RunObserver.
func (e *PaydayEvents) PaydayRunFinished(ctx context.Context, result payroll.RunResult) {
	n := e.hub.Publish(paydayTopic, sse.Event{
		Name: paydayCompletedEvent,
		Data: payroll.ToPaydayRunResponse(result),
	})
	e.logger.Debug("Payday run published", "run_id", result.RunID, "subscribers", n)
}

// StreamPayday handles the SSE connection.
func (e *PaydayEvents) StreamPayday(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := e.hub.Subscribe(paydayTopic)
	defer cleanup()
	e.logger.Debug("Payday stream subscribed", "subscribers", e.hub.SubscriberCount(paydayTopic))

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(e.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				e.logger.Error("Failed to encode event", "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
