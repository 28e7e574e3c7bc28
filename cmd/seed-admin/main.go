package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aromaten/aromaten-backend/internal/auth"
	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/db/models"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/security"
)

// seed-admin provisions an admin account. When no password is supplied a
// random one is generated and printed once to stdout.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (generated when empty)")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	plaintext := *password
	generated := false
	if plaintext == "" {
		plaintext, err = security.GeneratePassword(20)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
		generated = true
	}

	hash, err := security.HashPassword(plaintext, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	repo := auth.NewRepository(dbClient.DB())
	admin, err := repo.CreateAdmin(ctx, &models.AdminUser{Email: *email, PasswordHash: hash})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			fmt.Fprintln(os.Stderr, "admin already exists:", *email)
			os.Exit(1)
		}
		logg.Error(ctx, "failed to create admin", err)
		os.Exit(1)
	}

	fmt.Println("created admin:", admin.Email)
	if generated {
		fmt.Println("generated password:", plaintext)
	}
}
