package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/orabaiah/buzzerd/internal/domain/schedule"
	"github.com/orabaiah/buzzerd/internal/logger"
	"github.com/orabaiah/buzzerd/internal/service/controller"
)

// Controller is the slice of the scheduling engine the HTTP boundary
// drives. Mutations take effect atomically under the engine's lock.
type Controller interface {
	ReplaceAlarms(ctx context.Context, candidates []string) int
	ClearAlarms(ctx context.Context)
	Alarms() schedule.AlarmSet
	StartTimer(ctx context.Context, hours, minutes, seconds int)
	StopTimer(ctx context.Context)
	SetOutput(ctx context.Context, name string, on bool) bool
	OutputNames() []string
	Status() controller.Snapshot
}

// alarmParamPrefix marks the query parameters carrying alarm candidates
// (alarm0=HH:MM, alarm1=HH:MM, ...).
const alarmParamPrefix = "alarm"

// NewRouter builds the chi router serving the control endpoints.
func NewRouter(engine Controller) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/", pageHandler(engine))
	r.Get("/status", statusHandler(engine))
	r.Get("/setAlarms", setAlarmsHandler(engine))
	r.Get("/clearAlarms", clearAlarmsHandler(engine))
	r.Get("/startTimer", startTimerHandler(engine))
	r.Get("/stopTimer", stopTimerHandler(engine))

	// One on/off route pair per configured output, matching the
	// device's historical URL scheme (/led1on, /led1off, ...).
	for _, name := range engine.OutputNames() {
		r.Get("/"+name+"on", setOutputHandler(engine, name, true))
		r.Get("/"+name+"off", setOutputHandler(engine, name, false))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}

func statusHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(engine.Status()); err != nil {
			logger.ErrorKV(r.Context(), "Failed to encode status", "error", err)
		}
	}
}

func setAlarmsHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.ReplaceAlarms(r.Context(), alarmCandidates(r.URL.Query()))

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// alarmCandidates collects the alarmN parameters in ascending index
// order. Query values arrive as a map, so the submitted sequence has
// to be rebuilt from the indexes the page assigns; the engine's
// first-N-valid truncation depends on that order.
func alarmCandidates(query url.Values) []string {
	type param struct {
		index int
		name  string
	}

	params := make([]param, 0, len(query))

	for name := range query {
		suffix, found := strings.CutPrefix(name, alarmParamPrefix)
		if !found {
			continue
		}

		index, err := strconv.Atoi(suffix)
		if err != nil || index < 0 {
			continue
		}

		params = append(params, param{index: index, name: name})
	}

	sort.Slice(params, func(i, j int) bool {
		return params[i].index < params[j].index
	})

	candidates := make([]string, 0, len(params))
	for _, p := range params {
		candidates = append(candidates, query[p.name]...)
	}

	return candidates
}

func clearAlarmsHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.ClearAlarms(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}
}

func startTimerHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		engine.StartTimer(
			r.Context(),
			intParam(query.Get("hours")),
			intParam(query.Get("minutes")),
			intParam(query.Get("seconds")),
		)

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func stopTimerHandler(engine Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.StopTimer(r.Context())

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func setOutputHandler(engine Controller, name string, on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.SetOutput(r.Context(), name, on)

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// intParam parses a numeric query parameter, treating anything
// unparsable as zero (best-effort ingestion; negatives are clamped by
// the engine).
func intParam(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return v
}
