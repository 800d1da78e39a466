// Package main provides admin management utilities for Quill.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go createsuperuser <email> <password>  - Create a superuser account")
		fmt.Println("  go run ./cmd/admin/main.go list-staff                          - List staff and superuser accounts")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	accountService := service.NewAccountService(repository.NewUserRepository(db))
	ctx := context.Background()

	switch os.Args[1] {
	case "createsuperuser":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go createsuperuser <email> <password>")
			os.Exit(1)
		}
		user, err := accountService.CreateSuperuser(ctx, os.Args[2], os.Args[3], service.UserFlags{})
		if err != nil {
			log.Fatalf("Failed to create superuser: %v", err)
		}
		fmt.Printf("Superuser created: id=%d email=%s\n", user.ID, user.Email)

	case "list-staff":
		var users []models.User
		if err := db.Where("is_staff = ? OR is_superuser = ?", true, true).Find(&users).Error; err != nil {
			log.Fatalf("Failed to list staff: %v", err)
		}
		for _, u := range users {
			fmt.Printf("id=%d email=%s staff=%v superuser=%v active=%v\n",
				u.ID, u.Email, u.IsStaff, u.IsSuperuser, u.IsActive)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
