package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/tech-service/push-relay/internal/config"
	"github.com/tech-service/push-relay/internal/firebase"
)

func main() {
	var (
		uid      = flag.String("uid", "", "Fixed UID for the admin account (optional, Firebase assigns one if empty)")
		email    = flag.String("email", "", "Admin account email (required)")
		password = flag.String("password", "", "Admin account password (required)")
		name     = flag.String("name", "Administrador", "Display name")
		showHelp = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *showHelp {
		fmt.Println("Admin Account Provisioner")
		fmt.Println("Usage: go run cmd/admin-provision/main.go [options]")
		fmt.Println("")
		fmt.Println("Creates the privileged account in Firebase Auth and mirrors its")
		fmt.Println("profile document in the users collection. Safe to re-run: an")
		fmt.Println("existing account is updated instead.")
		fmt.Println("")
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	config.LoadConfig()

	ctx := context.Background()

	fbClient, err := firebase.NewClient(ctx, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON)
	if err != nil {
		log.Fatal("Failed to initialize Firebase client", "error", err)
	}
	defer fbClient.Close()

	authClient, err := fbClient.Auth(ctx)
	if err != nil {
		log.Fatal("Failed to get Auth client", "error", err)
	}

	params := (&auth.UserToCreate{}).
		Email(*email).
		Password(*password).
		DisplayName(*name)
	if *uid != "" {
		params = params.UID(*uid)
	}

	user, err := authClient.CreateUser(ctx, params)
	if err != nil {
		if !auth.IsUIDAlreadyExists(err) && !auth.IsEmailAlreadyExists(err) {
			log.Fatal("Failed to create admin user", "error", err)
		}

		log.Info("Admin account already exists, updating instead")

		adminUID := *uid
		if adminUID == "" {
			existing, err := authClient.GetUserByEmail(ctx, *email)
			if err != nil {
				log.Fatal("Failed to look up existing admin", "email", *email, "error", err)
			}
			adminUID = existing.UID
		}

		update := (&auth.UserToUpdate{}).
			Email(*email).
			Password(*password).
			DisplayName(*name)

		user, err = authClient.UpdateUser(ctx, adminUID, update)
		if err != nil {
			log.Fatal("Failed to update admin user", "uid", adminUID, "error", err)
		}
	}

	// Mirror the profile document the mobile app reads.
	_, err = fbClient.Firestore.Collection("users").Doc(user.UID).Set(ctx, map[string]interface{}{
		"id":                user.UID,
		"username":          "admin",
		"name":              *name,
		"email":             *email,
		"isAdmin":           true,
		"isBlocked":         false,
		"lastPaymentDate":   time.Now().Format(time.RFC3339),
		"totalEarnings":     0,
		"completedServices": 0,
	}, firestore.MergeAll)
	if err != nil {
		log.Fatal("Failed to write admin profile document", "uid", user.UID, "error", err)
	}

	log.Info("✅ Admin account provisioned", "uid", user.UID, "email", *email)
}
