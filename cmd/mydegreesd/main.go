package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/marinamoger/myDegreesExtension/internal/audit"
	"github.com/marinamoger/myDegreesExtension/internal/config"
	"github.com/marinamoger/myDegreesExtension/internal/logging"
	"github.com/marinamoger/myDegreesExtension/internal/prereq"
	"github.com/marinamoger/myDegreesExtension/internal/scheduler"
	"github.com/marinamoger/myDegreesExtension/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.CachePath)
	if err != nil {
		logger.Error("failed to open cache store", "path", cfg.CachePath, "error", err)
		return
	}
	defer st.Close()

	auditClient := audit.NewClient(cfg.AuditBaseURL, cfg.AuditSchool, cfg.AuditDegree, cfg.HTTPTimeout, logger)
	history := audit.NewCache(st, auditClient, cfg.HistoryTTL, logger)
	prereqClient := prereq.NewClient(cfg.PrereqBaseURL, cfg.HTTPTimeout, logger)
	catalog := prereq.NewCatalog(st, prereqClient, logger)

	plan := newPlanState()
	badges := newBadgeBoard()
	sched := scheduler.New(scheduler.Deps{
		Page:      plan,
		Catalog:   catalog,
		History:   history,
		Annotator: badges,
		Log:       logger,
		Delay:     cfg.DebounceDelay,
	})
	defer sched.Close()

	api := &api{
		cfg:          cfg,
		log:          logger,
		store:        st,
		history:      history,
		catalog:      catalog,
		prereqClient: prereqClient,
		plan:         plan,
		badges:       badges,
		sched:        sched,
	}

	// Restore the persisted feature toggle; the scheduler starts disabled.
	var enabled bool
	if found, err := st.Get(store.ScopePrefs, prefPrereqCheck, &enabled); err == nil && found && enabled {
		sched.SetEnabled(context.Background(), true)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", api.handleHealth)
	mux.HandleFunc("/api/v1/evaluate", api.handleEvaluate)
	mux.HandleFunc("/api/v1/prereqs", api.handlePrereqs)
	mux.HandleFunc("/api/v1/plan", api.handlePlan)
	mux.HandleFunc("/api/v1/badges", api.handleBadges)
	mux.HandleFunc("/api/v1/preferences/prereqcheck", api.handleToggle)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("starting myDegrees prerequisite service", "addr", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
	}
}

// Middleware for request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}
