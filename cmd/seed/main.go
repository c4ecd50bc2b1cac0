// Command seed inserts the demo accounts used for manual testing: one
// employee and two managers. Existing rows with the same email are left
// untouched, so the command is safe to re-run.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/employee-task-tracker/internal/config"
	"github.com/iliyamo/employee-task-tracker/internal/database"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var seedUsers = []seedUser{
	{"Test User", "deneme1@gmail.com", "12345678", "employee"},
	{"Manager User", "admin@example.com", "password", "manager"},
	{"Manager User", "manager@example.com", "password", "manager"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, s := range seedUsers {
		u, err := users.Create(ctx, s.name, s.email, s.password, s.role, cfg.BcryptCost)
		if err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				log.Printf("skip %s: already exists", s.email)
				continue
			}
			log.Fatalf("seed %s: %v", s.email, err)
		}
		log.Printf("created %s (%s) id=%d", u.Email, u.Role, u.ID)
	}
}
