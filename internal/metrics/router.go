package metrics

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	Metrics        *Metrics
	Gatherer       prometheus.Gatherer
	CORSOrigins    []string
	DisableLogging bool
}

// summary is the compact JSON served at /api/summary.
type summary struct {
	Status     string `json:"status"`
	Level      int    `json:"level"`
	Score      int    `json:"score"`
	Lives      int    `json:"lives"`
	Enemies    int    `json:"enemies"`
	SecondsEnd int    `json:"seconds_left"`
}

// NewRouter builds the HTTP surface:
//
//	GET /metrics       Prometheus exposition
//	GET /api/snapshot  latest full snapshot
//	GET /api/summary   HUD values only
//	GET /health        liveness
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		// Through the standard logger so -log redirection applies
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Default(), NoColor: true}))
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, cfg.Metrics.Latest())
		})
		r.Get("/summary", func(w http.ResponseWriter, req *http.Request) {
			snap := cfg.Metrics.Latest()
			writeJSON(w, summary{
				Status:     snap.Status.String(),
				Level:      snap.Level,
				Score:      snap.Score,
				Lives:      snap.Lives,
				Enemies:    snap.EnemyCount,
				SecondsEnd: int(math.Ceil(snap.TimeLeft.Seconds())),
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[METRICS] Failed to encode response: %v", err)
	}
}

// StartServer serves handler on addr in the background.
func StartServer(addr string, handler http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("[METRICS] Serving on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[METRICS] Server error: %v", err)
		}
	}()
	return srv, nil
}
