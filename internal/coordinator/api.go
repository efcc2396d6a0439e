package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/registry"
)

// statusComplete/statusUnavailable are the two portal response statuses
// (spec §4.5, §6).
const (
	statusComplete    = "Complete"
	statusUnavailable = "Unavailable"
)

type statusResponse struct {
	Status string `json:"status"`
}

type actionRequest struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Duration  string `json:"duration"`
	Animation string `json:"animation"`
}

// selectorFor turns the request's id field into a registry.Selector: the
// literal "Broadcast" targets every worker (spec §4.5, §6).
func selectorFor(id string) registry.Selector {
	if id == "Broadcast" {
		return registry.All()
	}
	return registry.One(id)
}

// runAPI implements C-API (spec §4.5, §6): it serves the portal page, the
// four JSON mutation endpoints, and a supplementary /ws live-status
// stream (SPEC_FULL §4.8).
func (c *Coordinator) runAPI(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handlePortal)
	mux.HandleFunc("/messaging", c.handleMessage)
	mux.HandleFunc("/timerStart", c.handleTimerStart)
	mux.HandleFunc("/timerAdd", c.handleTimerAdd)
	mux.HandleFunc("/animation", c.handleAnimation)
	mux.HandleFunc("/ws", c.handleWS)

	handler := cors.AllowAll().Handler(mux)

	srv := &http.Server{Addr: c.cfg.APIAddr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		c.Printf("api: listening on %s", c.cfg.APIAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			c.Errorf("api: listen failed: %v", err)
		}
		return err
	}
}

func (c *Coordinator) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ok := c.reg.SetCurrent(selectorFor(req.ID), directive.Message(req.Message))
	writeStatus(w, ok)
	c.notifyWS()
}

func (c *Coordinator) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	minutes, err := strconv.ParseUint(req.Duration, 10, 0)
	if err != nil {
		writeStatus(w, false)
		return
	}
	total := time.Duration(minutes) * time.Minute
	ok := c.reg.SetCurrent(selectorFor(req.ID), directive.Timer(time.Now(), total))
	writeStatus(w, ok)
	c.notifyWS()
}

func (c *Coordinator) handleTimerAdd(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	minutes, err := strconv.ParseUint(req.Duration, 10, 0)
	if err != nil {
		writeStatus(w, false)
		return
	}
	incr := time.Duration(minutes) * time.Minute
	ok := c.reg.AddTimer(selectorFor(req.ID), time.Now(), incr)
	writeStatus(w, ok)
	c.notifyWS()
}

func (c *Coordinator) handleAnimation(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ok := c.reg.SetCurrent(selectorFor(req.ID), directive.Animation(req.Animation))
	writeStatus(w, ok)
	c.notifyWS()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v *actionRequest) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeStatus(w http.ResponseWriter, ok bool) {
	status := statusUnavailable
	if ok {
		status = statusComplete
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Status: status})
}

var portalTemplate = template.Must(template.New("portal").Parse(`<!DOCTYPE html>
<html>
<head><title>microbroadcast</title></head>
<body>
<h1>Workers</h1>
<table border="1">
<tr><th>MAC</th><th>Alias</th><th>Active</th><th>Current</th></tr>
{{range .}}
<tr>
<td>{{.MAC}}</td>
<td>{{.Alias}}</td>
<td>{{.Active}}</td>
<td>{{.CurrentSummary}}</td>
</tr>
{{end}}
</table>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = () => location.reload();
</script>
</body>
</html>
`))

// portalRow adapts a registry.Record for the template. The portal lists
// every record the registry holds (spec §6: "HTML portal listing
// workers"): evicted non-persistent workers are absent, while persistent
// workers are listed even when inactive or not yet registered.
type portalRow struct {
	MAC            string
	Alias          string
	Active         bool
	CurrentSummary string
}

func (c *Coordinator) handlePortal(w http.ResponseWriter, r *http.Request) {
	rows := make([]portalRow, 0)
	for _, rec := range c.reg.List() {
		rows = append(rows, portalRow{
			MAC:            rec.MAC,
			Alias:          rec.Alias,
			Active:         rec.Active,
			CurrentSummary: summarize(rec),
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	portalTemplate.Execute(w, rows)
}

func summarize(rec registry.Record) string {
	if !rec.HasCurrent {
		return directive.KindPing.String()
	}
	switch rec.Current.Kind {
	case directive.KindMessage:
		return "Message: " + rec.Current.Text
	case directive.KindTimer:
		remaining := rec.Current.Remaining(time.Now())
		return "Timer: " + remaining.String() + " / " + rec.Current.Total.String()
	case directive.KindAnimation:
		return "Animation: " + rec.Current.Name
	default:
		return directive.KindPing.String()
	}
}
