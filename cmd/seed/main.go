package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"filemeta/internal/config"
	"filemeta/internal/database"
	"filemeta/internal/domain"
	jwtsvc "filemeta/internal/pkg/jwt"
	"filemeta/internal/repository"
)

// seed creates demo users (the identity system normally owns them) and prints
// a bearer token for each.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	users := repository.NewUserRepository(db)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	ctx := context.Background()

	seed := []*domain.User{
		{ID: "00000000-0000-0000-0000-00000000a001", Name: "Administrator", Roles: []string{domain.RoleAdmin, domain.RoleUser}},
		{ID: "00000000-0000-0000-0000-00000000b001", Name: "Alice", Roles: []string{domain.RoleUser, domain.RoleUploader}},
		{ID: "00000000-0000-0000-0000-00000000b002", Name: "Bob", Roles: []string{domain.RoleUser}},
	}

	for _, u := range seed {
		if err := users.Create(ctx, u); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				log.Fatalf("create user %s: %v", u.Name, err)
			}
			log.Printf("user %s already exists, skipping", u.Name)
		}

		token, err := j.GenerateToken(u.ID)
		if err != nil {
			log.Fatalf("token for %s: %v", u.Name, err)
		}
		fmt.Printf("%-14s id=%s roles=%v\n  token=%s\n", u.Name, u.ID, u.Roles, token)
	}

	log.Println("Seed completed")
}
