package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/database/dbtest"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/auth"
)

// env wires the services over a throwaway database with a couple of users,
// statuses, and labels already in place.
type env struct {
	store    *repository.Store
	auth     *AuthService
	users    *UserService
	statuses *StatusService
	labels   *LabelService
	tasks    *TaskService

	alice   models.User
	bob     models.User
	draft   models.TaskStatus
	publish models.TaskStatus
	bug     models.Label
	chore   models.Label
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	store := repository.New(dbtest.Open(t))
	passwords := auth.NewPasswordManager()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	e := &env{
		store:    store,
		auth:     NewAuthService(store, passwords, tokens),
		users:    NewUserService(store, passwords),
		statuses: NewStatusService(store),
		labels:   NewLabelService(store),
		tasks:    NewTaskService(store),
	}

	alice := &models.User{Email: "alice@example.com", FirstName: "Alice", PasswordDigest: "x"}
	bob := &models.User{Email: "bob@example.com", FirstName: "Bob", PasswordDigest: "x"}
	require.NoError(t, store.Users.Create(ctx, alice))
	require.NoError(t, store.Users.Create(ctx, bob))
	e.alice, e.bob = *alice, *bob

	draft := &models.TaskStatus{Name: "Draft", Slug: "draft"}
	publish := &models.TaskStatus{Name: "Published", Slug: "published"}
	require.NoError(t, store.Statuses.Create(ctx, draft))
	require.NoError(t, store.Statuses.Create(ctx, publish))
	e.draft, e.publish = *draft, *publish

	bug := &models.Label{Name: "bug"}
	chore := &models.Label{Name: "chore"}
	require.NoError(t, store.Labels.Create(ctx, bug))
	require.NoError(t, store.Labels.Create(ctx, chore))
	e.bug, e.chore = *bug, *chore

	return e
}

func strPtr(s string) *string { return &s }

func intPtr(v int64) *int64 { return &v }
