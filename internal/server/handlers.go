package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/database"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleAPIAudits handles /api/audits (collection)
func (s *Server) handleAPIAudits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		audits, err := s.db.ListAudits(100)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if audits == nil {
			audits = []database.Audit{}
		}
		writeJSON(w, http.StatusOK, audits)

	case http.MethodPost:
		var req audit.AuditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Target == "" {
			writeError(w, http.StatusBadRequest, "target is required")
			return
		}
		a, err := s.runner.Start(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, a)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIAudit handles /api/audits/{uuid} and its sub-resources.
func (s *Server) handleAPIAudit(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/audits/")
	parts := strings.SplitN(rest, "/", 2)
	uuid := parts[0]
	if uuid == "" {
		writeError(w, http.StatusBadRequest, "audit id required")
		return
	}

	a, err := s.db.GetAuditByUUID(uuid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}

	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		results, err := s.db.GetModuleResultsByAudit(a.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"audit":   a,
			"results": results,
		})

	case "progress":
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  a.Status,
			"percent": a.Progress,
			"message": a.Message,
		})

	case "report":
		content, err := s.reportGen.GenerateMarkdown(a.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(content))

	case "report.pdf":
		path, err := s.reportGen.GeneratePDF(a.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		http.ServeFile(w, r, path)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleAPIModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.ModuleNames())
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAPINotifications handles /api/notifications?user=...&unread=1
func (s *Server) handleAPINotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "1"

	notifications, err := s.db.ListNotificationsByUser(user, unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notifications == nil {
		notifications = []database.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// handleAPINotification handles /api/notifications/{id} and /api/notifications/{id}/read
func (s *Server) handleAPINotification(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	parts := strings.SplitN(rest, "/", 2)

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "read" && r.Method == http.MethodPost:
		if err := s.db.MarkNotificationRead(id, user); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := s.db.DeleteNotification(id, user); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIAlertPrefs handles GET/PUT /api/alerts/prefs?user=...
func (s *Server) handleAPIAlertPrefs(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		prefs, err := s.db.GetAlertPrefs(user, s.cfg.Audit.MinScoreThreshold, s.cfg.Audit.MinScoreDrop)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPut:
		var prefs database.AlertPrefs
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		prefs.UserID = user
		if prefs.MinScoreThreshold <= 0 || prefs.MinScoreThreshold > 100 {
			writeError(w, http.StatusBadRequest, "min_score_threshold must be 1-100")
			return
		}
		if prefs.MinScoreDrop <= 0 || prefs.MinScoreDrop > 100 {
			writeError(w, http.StatusBadRequest, "min_score_drop must be 1-100")
			return
		}
		if err := s.db.SaveAlertPrefs(&prefs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
