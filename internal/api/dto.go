package api

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/models"
	"taskboard/pkg/nullable"
)

// taskResponse mirrors the wire shape of a task: the status travels as its
// slug and labels as their ids.
type taskResponse struct {
	ID         int64     `json:"id"`
	Index      *int64    `json:"index"`
	AssigneeID *int64    `json:"assignee_id"`
	Title      string    `json:"title"`
	Content    *string   `json:"content"`
	Status     string    `json:"status"`
	LabelIDs   []int64   `json:"taskLabelIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toTaskResponse(t *models.Task, statusSlug string) taskResponse {
	resp := taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    statusSlug,
		LabelIDs:  t.LabelIDs,
		CreatedAt: t.CreatedAt,
	}
	if resp.LabelIDs == nil {
		resp.LabelIDs = []int64{}
	}
	if t.Index.Valid {
		v := t.Index.Int64
		resp.Index = &v
	}
	if t.AssigneeID.Valid {
		v := t.AssigneeID.Int64
		resp.AssigneeID = &v
	}
	if t.Content.Valid {
		v := t.Content.String
		resp.Content = &v
	}
	return resp
}

type taskCreateRequest struct {
	Index      *int64  `json:"index"`
	AssigneeID *int64  `json:"assignee_id"`
	Title      string  `json:"title"`
	Content    *string `json:"content"`
	Status     string  `json:"status"`
	LabelIDs   []int64 `json:"taskLabelIds"`
}

type taskUpdateRequest struct {
	Index      nullable.Nullable[int64]   `json:"index"`
	AssigneeID nullable.Nullable[int64]   `json:"assignee_id"`
	Title      nullable.Nullable[string]  `json:"title"`
	Content    nullable.Nullable[string]  `json:"content"`
	Status     nullable.Nullable[string]  `json:"status"`
	LabelIDs   nullable.Nullable[[]int64] `json:"taskLabelIds"`
}

type userRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
}

type statusRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type labelRequest struct {
	Name *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
