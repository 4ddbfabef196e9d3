package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FirstName      string    `db:"first_name" json:"firstName"`
	LastName       string    `db:"last_name" json:"lastName"`
	PasswordDigest string    `db:"password_digest" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// TaskStatus is a named workflow state. The slug is the stable identifier
// used in task payloads and filters; the display name may change freely.
type TaskStatus struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Label struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Task references its author and status by id (both required) and its
// assignee optionally. LabelIDs is loaded from the join table, not a column.
type Task struct {
	ID         int64          `db:"id"`
	Index      sql.NullInt64  `db:"index_number"`
	Title      string         `db:"title"`
	Content    sql.NullString `db:"content"`
	AuthorID   int64          `db:"author_id"`
	AssigneeID sql.NullInt64  `db:"assignee_id"`
	StatusID   int64          `db:"status_id"`
	CreatedAt  time.Time      `db:"created_at"`
	LabelIDs   []int64        `db:"-"`
}
