package repository

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/models"
)

type TaskStore struct {
	q       sqlx.ExtContext
	dialect string
}

// TaskFilter selects tasks along up to four dimensions. Nil fields impose no
// constraint; supplied fields are combined with AND.
type TaskFilter struct {
	AssigneeID *int64
	TitleCont  *string
	StatusSlug *string
	LabelID    *int64
}

// predicates turns the filter into its conjuncts. A task with no assignee
// never matches a supplied AssigneeID, and an unknown slug or label id simply
// matches nothing.
func (f TaskFilter) predicates(d *sql.DialectBuilder) []*sql.Predicate {
	tasks := d.Table("tasks")
	var ps []*sql.Predicate

	if f.AssigneeID != nil {
		ps = append(ps, sql.EQ(tasks.C("assignee_id"), *f.AssigneeID))
	}
	if f.TitleCont != nil {
		ps = append(ps, sql.ContainsFold(tasks.C("title"), *f.TitleCont))
	}
	if f.StatusSlug != nil {
		st := d.Table("task_statuses")
		ps = append(ps, sql.Exists(
			d.Select(st.C("id")).
				From(st).
				Where(sql.And(
					sql.ColumnsEQ(st.C("id"), tasks.C("status_id")),
					sql.EQ(st.C("slug"), *f.StatusSlug),
				)),
		))
	}
	if f.LabelID != nil {
		tl := d.Table("task_labels")
		ps = append(ps, sql.Exists(
			d.Select(tl.C("task_id")).
				From(tl).
				Where(sql.And(
					sql.ColumnsEQ(tl.C("task_id"), tasks.C("id")),
					sql.EQ(tl.C("label_id"), *f.LabelID),
				)),
		))
	}

	return ps
}

// List returns the tasks matching every supplied filter dimension, in id
// order. An empty filter returns all tasks.
func (s *TaskStore) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	d := sql.Dialect(s.dialect)
	tasks := d.Table("tasks")

	sel := d.Select(taskColumns(tasks)...).
		From(tasks).
		OrderBy(tasks.C("id"))

	if ps := filter.predicates(d); len(ps) > 0 {
		sel.Where(sql.And(ps...))
	}

	query, args := sel.Query()

	var result []models.Task
	if err := sqlx.SelectContext(ctx, s.q, &result, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	if err := s.attachLabels(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TaskStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	query := s.q.Rebind(
		"SELECT id, index_number, title, content, author_id, assignee_id, status_id, created_at" +
			" FROM tasks WHERE id = ?")
	if err := sqlx.GetContext(ctx, s.q, &t, query, id); err != nil {
		return nil, err
	}

	single := []models.Task{t}
	if err := s.attachLabels(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Create inserts the task and its label associations.
func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	t.CreatedAt = time.Now().UTC()

	b := sql.Dialect(s.dialect).
		Insert("tasks").
		Columns("index_number", "title", "content", "author_id", "assignee_id", "status_id", "created_at").
		Values(t.Index, t.Title, t.Content, t.AuthorID, t.AssigneeID, t.StatusID, t.CreatedAt)

	id, err := insertID(ctx, s.q, s.dialect, b)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = id

	return s.setLabels(ctx, t.ID, t.LabelIDs)
}

// Update writes the merged row back and replaces the label set. The author
// column is never touched; authorship is fixed at creation.
func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	query, args := sql.Dialect(s.dialect).
		Update("tasks").
		Set("index_number", t.Index).
		Set("title", t.Title).
		Set("content", t.Content).
		Set("assignee_id", t.AssigneeID).
		Set("status_id", t.StatusID).
		Where(sql.EQ("id", t.ID)).
		Query()

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return s.setLabels(ctx, t.ID, t.LabelIDs)
}

func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	query, args := sql.Dialect(s.dialect).
		Delete("task_labels").
		Where(sql.EQ("task_id", id)).
		Query()
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task labels: %w", err)
	}

	query, args = sql.Dialect(s.dialect).
		Delete("tasks").
		Where(sql.EQ("id", id)).
		Query()
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ExistsWithStatus reports whether any task carries the given status.
func (s *TaskStore) ExistsWithStatus(ctx context.Context, statusID int64) (bool, error) {
	return s.exists(ctx, sql.EQ("status_id", statusID))
}

// ExistsWithLabel reports whether any task carries the given label.
func (s *TaskStore) ExistsWithLabel(ctx context.Context, labelID int64) (bool, error) {
	d := sql.Dialect(s.dialect)
	tasks := d.Table("tasks")
	tl := d.Table("task_labels")
	return s.exists(ctx, sql.Exists(
		d.Select(tl.C("task_id")).
			From(tl).
			Where(sql.And(
				sql.ColumnsEQ(tl.C("task_id"), tasks.C("id")),
				sql.EQ(tl.C("label_id"), labelID),
			)),
	))
}

// ExistsForUser reports whether any task names the user as author or assignee.
func (s *TaskStore) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	return s.exists(ctx, sql.Or(
		sql.EQ("author_id", userID),
		sql.EQ("assignee_id", userID),
	))
}

func (s *TaskStore) exists(ctx context.Context, p *sql.Predicate) (bool, error) {
	d := sql.Dialect(s.dialect)
	query, args := d.Select(sql.Count("*")).
		From(d.Table("tasks")).
		Where(p).
		Query()

	var count int64
	if err := sqlx.GetContext(ctx, s.q, &count, query, args...); err != nil {
		return false, fmt.Errorf("count tasks: %w", err)
	}
	return count > 0, nil
}

// setLabels replaces the task's label set.
func (s *TaskStore) setLabels(ctx context.Context, taskID int64, labelIDs []int64) error {
	query, args := sql.Dialect(s.dialect).
		Delete("task_labels").
		Where(sql.EQ("task_id", taskID)).
		Query()
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear task labels: %w", err)
	}

	if len(labelIDs) == 0 {
		return nil
	}

	b := sql.Dialect(s.dialect).
		Insert("task_labels").
		Columns("task_id", "label_id")
	for _, labelID := range labelIDs {
		b.Values(taskID, labelID)
	}

	query, args = b.Query()
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert task labels: %w", err)
	}
	return nil
}

// attachLabels loads the label ids for each task in one query.
func (s *TaskStore) attachLabels(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	args := make([]interface{}, len(tasks))
	for i, t := range tasks {
		args[i] = t.ID
	}

	d := sql.Dialect(s.dialect)
	query, qargs := d.Select("task_id", "label_id").
		From(d.Table("task_labels")).
		Where(sql.In("task_id", args...)).
		OrderBy("label_id").
		Query()

	var rows []struct {
		TaskID  int64 `db:"task_id"`
		LabelID int64 `db:"label_id"`
	}
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, qargs...); err != nil {
		return fmt.Errorf("query task labels: %w", err)
	}

	byTask := make(map[int64][]int64, len(tasks))
	for _, r := range rows {
		byTask[r.TaskID] = append(byTask[r.TaskID], r.LabelID)
	}
	for i := range tasks {
		if ids, ok := byTask[tasks[i].ID]; ok {
			tasks[i].LabelIDs = ids
		} else {
			tasks[i].LabelIDs = []int64{}
		}
	}
	return nil
}

func taskColumns(t *sql.SelectTable) []string {
	return []string{
		t.C("id"),
		t.C("index_number"),
		t.C("title"),
		t.C("content"),
		t.C("author_id"),
		t.C("assignee_id"),
		t.C("status_id"),
		t.C("created_at"),
	}
}
