// Command seed_admin creates or repairs the bootstrap superadmin
// account. Safe to run repeatedly: an existing account keeps its
// password unless -reset is set.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/pkg/config"
	"github.com/aulamarket/aulamarket-api/pkg/database"
)

func main() {
	var (
		email    string
		name     string
		password string
		reset    bool
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "", "Superadmin email (required)")
	flag.StringVar(&name, "name", "Platform Admin", "Display name")
	flag.StringVar(&password, "password", "", "Initial password (required)")
	flag.BoolVar(&reset, "reset", false, "Reset the password if the account exists")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Database timeout")
	flag.Parse()

	if email == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existingID string
	err = db.QueryRowxContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&existingID)
	switch {
	case err == nil:
		if !reset {
			fmt.Printf("account %s already exists (%s), nothing to do\n", email, existingID)
			return
		}
		_, err = db.ExecContext(ctx,
			`UPDATE users SET password_hash = $2, role = $3, active = true, updated_at = $4 WHERE id = $1`,
			existingID, string(hash), models.RoleSuperAdmin, time.Now().UTC(),
		)
		if err != nil {
			log.Fatalf("failed to reset account: %v", err)
		}
		fmt.Printf("account %s reset (%s)\n", email, existingID)
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		id := uuid.NewString()
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, true, $6, $6)`,
			id, email, string(hash), name, models.RoleSuperAdmin, now,
		)
		if err != nil {
			log.Fatalf("failed to create account: %v", err)
		}
		fmt.Printf("superadmin %s created (%s)\n", email, id)
	default:
		log.Fatalf("failed to query users: %v", err)
	}
}
