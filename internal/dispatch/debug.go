package dispatch

import (
	"encoding/json"
	"net/http"
	"time"
)

// DebugHandler 返回 /debug/dispatch 所需的 handler。
func (d *Dispatcher) DebugHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})
}

type debugSnapshot struct {
	Busy      bool      `json:"busy"`
	State     State     `json:"state"`
	InFlight  int64     `json:"inFlight"`
	AppTag    string    `json:"appTag"`
	Timestamp time.Time `json:"timestamp"`
}

func (d *Dispatcher) snapshot() debugSnapshot {
	return debugSnapshot{
		Busy:      d.Busy(),
		State:     d.State(),
		InFlight:  d.InFlight(),
		AppTag:    d.cfg.AppTag,
		Timestamp: time.Now(),
	}
}
