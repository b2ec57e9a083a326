//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/echofinder/api/internal/auth"
	"github.com/echofinder/api/internal/database"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/users"
	"github.com/echofinder/api/pkg/config"
	"github.com/echofinder/api/pkg/util"
)

// Seeds the first admin account. There is no password flow; this prints a
// session token so the bootstrap admin can start issuing invites.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, "echofinder-seed")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if name == "" {
		name = "Admin"
	}

	userService := users.NewService(db)

	admin, err := userService.Create(context.Background(), users.CreateInput{
		Email:       email,
		DisplayName: name,
		Role:        models.RoleAdmin,
		Status:      models.StatusActive,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			fmt.Printf("Admin user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	token, err := jwtService.GenerateToken(admin)
	if err != nil {
		log.Fatalf("failed to mint session token: %v", err)
	}

	fmt.Printf("Admin user created successfully!\n")
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Printf("Token: %s\n", token)
}
