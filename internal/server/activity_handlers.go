package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/service"
)

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var activity models.Activity
	if err := decodeJSON(r, &activity); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if activity.Title == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "title is required")
		return
	}

	created, err := s.tasks.AddActivity(r.Context(), actor, &activity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListActivities lists the actor's visible activities, narrowed by
// query parameters. Every parameter is optional; they compose with AND.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.ActivityFilter{
		Status:   models.Status(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Category: models.Category(q.Get("category")),
		Date:     q.Get("date"),
		GroupID:  q.Get("group_id"),
		Assignee: q.Get("assignee"),
		Scope:    models.Scope(q.Get("scope")),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	activities, err := s.tasks.FilterActivities(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var update service.ActivityUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	activity, err := s.tasks.UpdateActivity(r.Context(), actor, chi.URLParam(r, "activityID"), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.tasks.DeleteActivity(r.Context(), actor, chi.URLParam(r, "activityID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleToggleActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	activity, err := s.tasks.ToggleComplete(r.Context(), actor, chi.URLParam(r, "activityID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleCanEditActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, err := s.tasks.CanEditActivity(r.Context(), actor, chi.URLParam(r, "activityID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_edit": ok})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := s.dashboard.Stats(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
