package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eartune"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "submissions_total",
			Help:      "Judged submissions by challenge kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	submitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "submit_duration_seconds",
			Help:      "Time to judge and persist one submission.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"kind"},
	)

	sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "sessions_total",
			Help:      "Session lifecycle events.",
		},
		[]string{"event"},
	)

	xpAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "xp_awarded_total",
			Help:      "XP earned from answers, excluding achievement rewards.",
		},
	)

	levelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "level_ups_total",
			Help:      "Submissions that raised a user's level.",
		},
	)

	unlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by name.",
		},
		[]string{"achievement"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job runs.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of background job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)

	streaksReset = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "streaks_reset_total",
			Help:      "Profiles whose lapsed streak was zeroed by the sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		submissions,
		submitDuration,
		sessions,
		xpAwarded,
		levelUps,
		unlocks,
		jobRuns,
		jobDuration,
		streaksReset,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Requests are labelled by chi route pattern so ids do not explode cardinality.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordSubmission counts one judged submission and how long it took.
func RecordSubmission(kind string, correct bool, duration time.Duration) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	submissions.WithLabelValues(kind, outcome).Inc()
	submitDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRejectedSubmission counts a submission refused with an error code.
func RecordRejectedSubmission(kind, code string) {
	submissions.WithLabelValues(kind, strings.ToLower(code)).Inc()
}

// RecordSessionEvent counts session starts, resumes and endings.
func RecordSessionEvent(event string) {
	sessions.WithLabelValues(event).Inc()
}

// RecordProgress records XP earned, a level up and newly unlocked achievements.
func RecordProgress(xp int, levelUp bool, unlocked []string) {
	if xp > 0 {
		xpAwarded.Add(float64(xp))
	}
	if levelUp {
		levelUps.Inc()
	}
	for _, name := range unlocked {
		unlocks.WithLabelValues(name).Inc()
	}
}

// RecordJobRun records a background job execution.
func RecordJobRun(job string, success bool, duration time.Duration) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordStreaksReset adds the number of streaks a sweep zeroed.
func RecordStreaksReset(n int64) {
	if n > 0 {
		streaksReset.Add(float64(n))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
