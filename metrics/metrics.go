package metrics

import (
	"fmt"
	"net/http"

	"go.uber.org/atomic"
)

// Prometheus-style counters
var (
	wsConnections      atomic.Int64 // gauge semantics
	sessionsMounted    atomic.Uint64
	transitionsAuto    atomic.Uint64
	transitionsManual  atomic.Uint64
	autoplayResumes    atomic.Uint64
	commandsRejected   atomic.Uint64
	catalogReloads     atomic.Uint64
	catalogLoadFailure atomic.Uint64
	eventPublishFail   atomic.Uint64
)

func IncWSConnections()   { wsConnections.Inc() }
func DecWSConnections()   { wsConnections.Dec() }
func IncSessionsMounted() { sessionsMounted.Inc() }

func IncTransition(manual bool) {
	if manual {
		transitionsManual.Inc()
		return
	}
	transitionsAuto.Inc()
}

func IncAutoplayResumes()      { autoplayResumes.Inc() }
func IncCommandsRejected()     { commandsRejected.Inc() }
func IncCatalogReloads()       { catalogReloads.Inc() }
func IncCatalogLoadFailures()  { catalogLoadFailure.Inc() }
func IncEventPublishFailures() { eventPublishFail.Inc() }

// WSConnections reports the current gauge value.
func WSConnections() int64 { return wsConnections.Load() }

// Handler exposes metrics in a minimal Prometheus exposition format.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP showcase_ws_connections Open websocket viewers\n")
	fmt.Fprintf(w, "# TYPE showcase_ws_connections gauge\n")
	fmt.Fprintf(w, "showcase_ws_connections %d\n", wsConnections.Load())

	fmt.Fprintf(w, "# HELP showcase_sessions_mounted_total Showcase sessions mounted\n")
	fmt.Fprintf(w, "# TYPE showcase_sessions_mounted_total counter\n")
	fmt.Fprintf(w, "showcase_sessions_mounted_total %d\n", sessionsMounted.Load())

	fmt.Fprintf(w, "# HELP showcase_transitions_total Item transitions started\n")
	fmt.Fprintf(w, "# TYPE showcase_transitions_total counter\n")
	fmt.Fprintf(w, "showcase_transitions_total{trigger=\"autoplay\"} %d\n", transitionsAuto.Load())
	fmt.Fprintf(w, "showcase_transitions_total{trigger=\"manual\"} %d\n", transitionsManual.Load())

	fmt.Fprintf(w, "# HELP showcase_autoplay_resumes_total Autoplay resumed after a manual cooldown\n")
	fmt.Fprintf(w, "# TYPE showcase_autoplay_resumes_total counter\n")
	fmt.Fprintf(w, "showcase_autoplay_resumes_total %d\n", autoplayResumes.Load())

	fmt.Fprintf(w, "# HELP showcase_commands_rejected_total Viewer commands failing validation\n")
	fmt.Fprintf(w, "# TYPE showcase_commands_rejected_total counter\n")
	fmt.Fprintf(w, "showcase_commands_rejected_total %d\n", commandsRejected.Load())

	fmt.Fprintf(w, "# HELP showcase_catalog_reloads_total Catalog reloads fanned out to sessions\n")
	fmt.Fprintf(w, "# TYPE showcase_catalog_reloads_total counter\n")
	fmt.Fprintf(w, "showcase_catalog_reloads_total %d\n", catalogReloads.Load())

	fmt.Fprintf(w, "# HELP showcase_catalog_load_failures_total Item loads that fell back to an empty list\n")
	fmt.Fprintf(w, "# TYPE showcase_catalog_load_failures_total counter\n")
	fmt.Fprintf(w, "showcase_catalog_load_failures_total %d\n", catalogLoadFailure.Load())

	fmt.Fprintf(w, "# HELP showcase_event_publish_failures_total Showcase events that could not be published\n")
	fmt.Fprintf(w, "# TYPE showcase_event_publish_failures_total counter\n")
	fmt.Fprintf(w, "showcase_event_publish_failures_total %d\n", eventPublishFail.Load())
}
