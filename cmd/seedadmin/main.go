// Command seedadmin creates the first ADMIN account. It is idempotent: if a
// user with the given email already exists it exits without changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/virtuebox/backoffice/internal/config"
	"github.com/virtuebox/backoffice/internal/infra"
	"github.com/virtuebox/backoffice/internal/logging"
	"github.com/virtuebox/backoffice/internal/user"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Super Admin", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seedadmin -email <email> -password <password> [-name <name>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, "seedadmin")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := infra.NewLazyPool(cfg.DatabaseURL)
	defer db.Close()
	repo := user.NewPostgresRepository(db)

	addr := strings.ToLower(strings.TrimSpace(*email))

	existing, err := repo.FindByEmail(ctx, addr)
	if err == nil {
		logger.Info("admin already exists", "email", existing.Email)
		return
	}
	if !errors.Is(err, user.ErrNotFound) {
		logger.Error("lookup admin", "error", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.BcryptCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	admin := user.User{
		ID:           uuid.New().String(),
		Name:         *name,
		Email:        addr,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Create(ctx, admin); err != nil {
		logger.Error("create admin", "error", err)
		os.Exit(1)
	}

	logger.Info("admin user created", "email", admin.Email, "name", admin.Name)
}
