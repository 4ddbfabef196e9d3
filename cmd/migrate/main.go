// Command migrate applies the schema migrations and seeds the default task
// statuses and the initial admin account. Seeding is idempotent: rows that
// already exist are left alone.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/auth"
)

var defaultStatuses = []models.TaskStatus{
	{Name: "Draft", Slug: "draft"},
	{Name: "To Review", Slug: "to_review"},
	{Name: "To Be Fixed", Slug: "to_be_fixed"},
	{Name: "To Publish", Slug: "to_publish"},
	{Name: "Published", Slug: "published"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.NewDefault(cfg.Server.Environment)

	db, err := database.Open(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info(ctx, "migrations applied")

	store := repository.New(db)
	if err := seed(ctx, store, log); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	return nil
}

func seed(ctx context.Context, store *repository.Store, log logging.Logger) error {
	for _, st := range defaultStatuses {
		_, err := store.Statuses.GetBySlug(ctx, st.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check status %q: %w", st.Slug, err)
		}

		status := st
		if err := store.Statuses.Create(ctx, &status); err != nil {
			return fmt.Errorf("create status %q: %w", st.Slug, err)
		}
		log.Info(ctx, "seeded task status", "slug", st.Slug)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	_, err := store.Users.GetByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	digest, err := auth.NewPasswordManager().HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Email:          adminEmail,
		FirstName:      "Admin",
		LastName:       "User",
		PasswordDigest: digest,
	}
	if err := store.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info(ctx, "seeded admin user", "email", adminEmail)

	return nil
}
