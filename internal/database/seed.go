package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultCategories are created on first seed so a fresh install has
// somewhere to file articles.
var defaultCategories = []struct {
	name, slug, description, color string
}{
	{"Carreira", "carreira", "Career advice and the craft of software work.", "#e67e22"},
	{"Django", "django", "The Django web framework.", "#0c4b33"},
	{"Python", "python", "The Python language and its ecosystem.", "#3776ab"},
	{"React", "react", "Building interfaces with React.", "#61dafb"},
}

// Seed populates the database with initial development data.
// It creates a default admin user if none exists, and the default
// categories if they are missing.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	for _, c := range defaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description, color)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, c.name, c.slug, c.description, c.color)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	return nil
}

func seedAdmin(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping admin user")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@inkwell.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
