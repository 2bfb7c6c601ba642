package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/marinamoger/myDegreesExtension/internal/audit"
	"github.com/marinamoger/myDegreesExtension/internal/config"
	"github.com/marinamoger/myDegreesExtension/internal/course"
	"github.com/marinamoger/myDegreesExtension/internal/eval"
	"github.com/marinamoger/myDegreesExtension/internal/logging"
	"github.com/marinamoger/myDegreesExtension/internal/planner"
	"github.com/marinamoger/myDegreesExtension/internal/prereq"
	"github.com/marinamoger/myDegreesExtension/internal/scheduler"
	"github.com/marinamoger/myDegreesExtension/internal/store"
)

const prefPrereqCheck = "prereqCheckEnabled"

type api struct {
	cfg          *config.Config
	log          *logging.Logger
	store        *store.Store
	history      *audit.Cache
	catalog      *prereq.Catalog
	prereqClient *prereq.Client
	plan         *planState
	badges       *badgeBoard
	sched        *scheduler.Scheduler
}

// Health check endpoint
func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET requests allowed", "")
		return
	}
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"service":   "myDegrees prerequisite service",
		"scheduler": a.sched.State().String(),
	})
}

type evaluateRequest struct {
	Terms []planner.StaticTerm `json:"terms"`
}

type verdictResponse struct {
	Verdicts []eval.Verdict    `json:"verdicts"`
	Badges   map[string]string `json:"badges"`
}

// One-shot evaluation of a posted plan: collect, fill the catalog, load the
// history, evaluate. Mirrors one scheduler pass without touching the
// scheduler's own plan.
func (a *api) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST requests allowed", "")
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body", err.Error())
		return
	}
	if len(req.Terms) == 0 {
		sendError(w, http.StatusBadRequest, "MISSING_REQUIRED_FIELD", "terms is required", "")
		return
	}

	layout := planner.Collect(planner.StaticPage{Terms: req.Terms})
	a.catalog.EnsureScheduled(r.Context(), layout.Items)
	history := a.history.Ensure(r.Context())
	verdicts := eval.Evaluate(layout, history, a.catalog)

	resp := verdictResponse{Verdicts: verdicts, Badges: make(map[string]string)}
	for _, v := range verdicts {
		if text := v.BadgeText(); text != "" {
			resp.Badges[v.Course.Code] = text
		}
	}
	writeJSON(w, resp)
}

// Inspection surface: parsed AND-of-OR formulas for a comma-separated
// course list within one term.
func (a *api) handlePrereqs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET requests allowed", "")
		return
	}

	termCode := r.URL.Query().Get("term")
	coursesParam := r.URL.Query().Get("courses")
	if termCode == "" || coursesParam == "" {
		sendError(w, http.StatusBadRequest, "MISSING_REQUIRED_FIELD", "term and courses are required", "")
		return
	}

	var codes []string
	for _, raw := range strings.Split(coursesParam, ",") {
		codes = append(codes, course.Normalize(raw))
	}

	formulas, err := a.prereqClient.FetchBatch(r.Context(), termCode, codes)
	if err != nil {
		a.log.Warn("prerequisite lookup failed", "term", termCode, "error", err)
		sendError(w, http.StatusBadGateway, "PREREQ_API_UNAVAILABLE", "Failed to fetch prerequisites", err.Error())
		return
	}
	writeJSON(w, formulas)
}

// The scheduler's live plan. PUT replaces the snapshot and notifies the
// scheduler, which debounces into a pass.
func (a *api) handlePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, evaluateRequest{Terms: a.plan.snapshot()})
	case http.MethodPut:
		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body", err.Error())
			return
		}
		a.plan.update(req.Terms)
		a.sched.Notify()
		writeJSON(w, map[string]string{"status": "accepted"})
	default:
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and PUT requests allowed", "")
	}
}

func (a *api) handleBadges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET requests allowed", "")
		return
	}
	writeJSON(w, a.badges.snapshot())
}

// Feature toggle, persisted in the prefs scope and forwarded to the
// scheduler.
func (a *api) handleToggle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]bool{"enabled": a.sched.Enabled()})
	case http.MethodPut:
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body", err.Error())
			return
		}
		if err := a.store.Put(store.ScopePrefs, prefPrereqCheck, req.Enabled); err != nil {
			a.log.Warn("failed to persist toggle", "error", err)
		}
		a.sched.SetEnabled(r.Context(), req.Enabled)
		writeJSON(w, map[string]bool{"enabled": req.Enabled})
	default:
		sendError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and PUT requests allowed", "")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Helper function to send error responses
func sendError(w http.ResponseWriter, statusCode int, errorCode, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"status":     "error",
		"error_code": errorCode,
		"message":    message,
		"details":    details,
	})
}
