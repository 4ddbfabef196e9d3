package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTaskFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := s.tasks.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	slugs, err := s.statusSlugs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]taskResponse, len(tasks))
	for i := range tasks {
		resp[i] = toTaskResponse(&tasks[i], slugs[tasks[i].StatusID])
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.respondTask(w, r, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing authentication")
		return
	}

	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.tasks.Create(r.Context(), service.TaskCreate{
		Index:      req.Index,
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		LabelIDs:   req.LabelIDs,
	}, userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.respondTask(w, r, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.tasks.Update(r.Context(), id, service.TaskUpdate{
		Index:      req.Index,
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		LabelIDs:   req.LabelIDs,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.respondTask(w, r, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing authentication")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := s.tasks.Delete(r.Context(), id, userID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseTaskFilter reads the optional query parameters: assigneeId, titleCont,
// status (slug), labelId.
func parseTaskFilter(r *http.Request) (repository.TaskFilter, error) {
	var filter repository.TaskFilter
	q := r.URL.Query()

	if v := q.Get("assigneeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, &service.ValidationError{Field: "assigneeId", Reason: "must be an integer"}
		}
		filter.AssigneeID = &id
	}
	if v := q.Get("titleCont"); v != "" {
		filter.TitleCont = &v
	}
	if v := q.Get("status"); v != "" {
		filter.StatusSlug = &v
	}
	if v := q.Get("labelId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, &service.ValidationError{Field: "labelId", Reason: "must be an integer"}
		}
		filter.LabelID = &id
	}

	return filter, nil
}

func (s *Server) respondTask(w http.ResponseWriter, r *http.Request, code int, task *models.Task) {
	slugs, err := s.statusSlugs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, code, toTaskResponse(task, slugs[task.StatusID]))
}

func (s *Server) statusSlugs(ctx context.Context) (map[int64]string, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[int64]string, len(statuses))
	for _, st := range statuses {
		slugs[st.ID] = st.Slug
	}
	return slugs, nil
}
