package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/pkg/config"
	"github.com/noah-isme/certify-api/pkg/database"
)

// Seeds the first admin account so a fresh deployment can log in.
func main() {
	var (
		email    string
		password string
		fullName string
	)

	flag.StringVar(&email, "email", "admin@example.com", "admin email")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&fullName, "name", "Administrator", "admin full name")
	flag.Parse()

	if password == "" {
		log.Fatal("a password is required: -password")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists int
	err = db.GetContext(ctx, &exists, "SELECT 1 FROM users WHERE email = $1 LIMIT 1", email)
	if err == nil {
		log.Fatalf("user %s already exists", email)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, true, $6, $6)`,
		uuid.NewString(), email, string(hash), fullName, models.RoleAdmin, now)
	if err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}

	fmt.Printf("admin user %s created\n", email)
}
