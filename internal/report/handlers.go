package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagecheck/internal/audit"
	"pagecheck/internal/logging"
	"pagecheck/internal/store"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := store.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := s.svc.Summary(r.Context(), filter)
	if err != nil {
		s.serverError(w, "summary", err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context())
	if err != nil {
		s.serverError(w, "report", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := optionalInt(query.Get("limit"), 100)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	after, err := optionalInt(query.Get("since"), 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid since")
		return
	}
	events, err := s.svc.Events(r.Context(), strings.TrimSpace(query.Get("kind")), int64(after), limit)
	if errors.Is(err, audit.ErrInvalidArgument) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.serverError(w, "events", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, page, ok := pageParams(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid document or page")
		return
	}
	detail, err := s.svc.Page(r.Context(), id, page)
	if err != nil {
		s.serverError(w, "page", err)
		return
	}
	if detail == nil {
		s.writeError(w, http.StatusNotFound, "document not found")
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.source.CheckHealth(r.Context())
	status := http.StatusOK
	if err != nil || health.Error != "" || !health.IntegrityCheck {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *Server) handleSummaryPage(w http.ResponseWriter, r *http.Request) {
	filter, err := store.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		filter = store.FilterAll
	}
	summary, err := s.svc.Summary(r.Context(), filter)
	if err != nil {
		s.serverError(w, "summary", err)
		return
	}
	s.render(w, "summary.html", summary)
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context())
	if err != nil {
		s.serverError(w, "report", err)
		return
	}
	s.render(w, "report.html", report)
}

func (s *Server) handlePagePage(w http.ResponseWriter, r *http.Request) {
	id, page, ok := pageParams(r)
	if !ok {
		http.Error(w, "invalid document or page", http.StatusBadRequest)
		return
	}
	detail, err := s.svc.Page(r.Context(), id, page)
	if err != nil {
		s.serverError(w, "page", err)
		return
	}
	if detail == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "page.html", detail)
}

func pageParams(r *http.Request) (int64, int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, false
	}
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page <= 0 {
		return 0, 0, false
	}
	return id, page, true
}

func optionalInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("invalid integer")
	}
	return value, nil
}

func (s *Server) serverError(w http.ResponseWriter, view string, err error) {
	logging.ErrorWithContext(s.logger, "report query failed", "report_query_failed",
		slog.String("view", view),
		logging.Error(err),
	)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		s.logger.Warn("report response encode failed", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
