package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

// refInput names the entity references a task payload supplied. Nil fields
// were not supplied and are not resolved. labelsSet distinguishes "no label
// list in the payload" from "an empty list".
type refInput struct {
	statusSlug *string
	assigneeID *int64
	labelIDs   []int64
	labelsSet  bool
}

// taskRefs is the fully resolved bundle for one payload.
type taskRefs struct {
	status   *models.TaskStatus
	assignee *models.User
	labels   []models.Label
}

// resolveTaskRefs turns the supplied identifiers into live entity references.
// Resolution is all-or-nothing: every dangling identifier is collected and
// the whole pass fails with a MissingReferenceError, so a write never happens
// against a partially resolved payload. The author is never resolved here; it
// comes from the authenticated principal, not the payload.
func resolveTaskRefs(ctx context.Context, store *repository.Store, in refInput) (*taskRefs, error) {
	var refs taskRefs
	var missing []string

	if in.statusSlug != nil {
		status, err := store.Statuses.GetBySlug(ctx, *in.statusSlug)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			missing = append(missing, fmt.Sprintf("status %q", *in.statusSlug))
		case err != nil:
			return nil, fmt.Errorf("resolve status: %w", err)
		default:
			refs.status = status
		}
	}

	if in.assigneeID != nil {
		assignee, err := store.Users.Get(ctx, *in.assigneeID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			missing = append(missing, fmt.Sprintf("assignee %d", *in.assigneeID))
		case err != nil:
			return nil, fmt.Errorf("resolve assignee: %w", err)
		default:
			refs.assignee = assignee
		}
	}

	if in.labelsSet {
		labels, err := store.Labels.GetByIDs(ctx, in.labelIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve labels: %w", err)
		}
		found := make(map[int64]bool, len(labels))
		for _, l := range labels {
			found[l.ID] = true
		}
		for _, id := range in.labelIDs {
			if !found[id] {
				missing = append(missing, fmt.Sprintf("label %d", id))
			}
		}
		refs.labels = labels
	}

	if len(missing) > 0 {
		return nil, &MissingReferenceError{Refs: missing}
	}
	return &refs, nil
}
