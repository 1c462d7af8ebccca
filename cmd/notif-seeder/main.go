package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/tech-service/push-relay/internal/config"
	"github.com/tech-service/push-relay/internal/firebase"
)

func usage() {
	fmt.Println("Notification Test Data Tool")
	fmt.Println("Usage: go run cmd/notif-seeder/main.go [create|list|clear|verify]")
	fmt.Println("")
	fmt.Println("  create - Seed test notifications for up to three technicians")
	fmt.Println("  list   - List all notifications, newest first")
	fmt.Println("  clear  - Delete all notifications")
	fmt.Println("  verify - List users and whether each has a stored FCM token")
}

func main() {
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		usage()
		return
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

	db := fbClient.Firestore

	switch command {
	case "create":
		createTestNotifications(ctx, db)
	case "list":
		listNotifications(ctx, db)
	case "clear":
		clearNotifications(ctx, db)
	case "verify":
		verifyUsers(ctx, db)
	default:
		usage()
	}
}

// createTestNotifications seeds three notifications per technician for up to
// three non-admin users: one assignment (the only kind the relay dispatches),
// one status change, one general reminder.
func createTestNotifications(ctx context.Context, db *firestore.Client) {
	users, err := db.Collection("users").
		Where("isAdmin", "==", false).
		Limit(3).
		Documents(ctx).GetAll()
	if err != nil {
		log.Fatal("Failed to query technicians", "error", err)
	}

	if len(users) == 0 {
		log.Warn("No technician users found, nothing to seed")
		return
	}

	now := time.Now()
	var records []map[string]interface{}

	for _, userDoc := range users {
		userID := userDoc.Ref.ID

		records = append(records, map[string]interface{}{
			"userId":  userID,
			"type":    "service_assignment",
			"title":   "Nuevo Servicio Asignado",
			"message": "Se te ha asignado un nuevo servicio de refrigeración en zona norte.",
			"data": map[string]interface{}{
				"serviceId":   fmt.Sprintf("test_service_%d", now.UnixMilli()),
				"serviceType": "Mantenimiento",
			},
			"isRead":    false,
			"createdAt": now.Format(time.RFC3339),
		})

		records = append(records, map[string]interface{}{
			"userId":  userID,
			"type":    "service_status_change",
			"title":   "Estado de Servicio Actualizado",
			"message": "El servicio #12345 ha sido marcado como completado por el cliente.",
			"data": map[string]interface{}{
				"serviceId": "service_12345",
				"newStatus": "completed",
			},
			"isRead":    false,
			"createdAt": now.Add(-1 * time.Hour).Format(time.RFC3339),
		})

		records = append(records, map[string]interface{}{
			"userId":    userID,
			"type":      "general",
			"title":     "Recordatorio de Pago",
			"message":   "Recuerda realizar el pago de tu comisión semanal antes del viernes.",
			"data":      map[string]interface{}{},
			"isRead":    false,
			"createdAt": now.Add(-2 * time.Hour).Format(time.RFC3339),
		})
	}

	bw := db.BulkWriter(ctx)
	for _, rec := range records {
		if _, err := bw.Create(db.Collection("notifications").NewDoc(), rec); err != nil {
			log.Fatal("Failed to queue notification write", "error", err)
		}
	}
	bw.End()

	log.Info("✅ Seeded test notifications", "count", len(records), "users", len(users))
	for _, userDoc := range users {
		name, _ := userDoc.Data()["name"].(string)
		fmt.Printf("- %s (%s)\n", name, userDoc.Ref.ID)
	}
}

func listNotifications(ctx context.Context, db *firestore.Client) {
	docs, err := db.Collection("notifications").
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		log.Fatal("Failed to list notifications", "error", err)
	}

	if len(docs) == 0 {
		fmt.Println("No notifications in the database")
		return
	}

	fmt.Printf("Total notifications: %d\n\n", len(docs))

	for _, doc := range docs {
		data := doc.Data()
		status := "🔔 unread"
		if isRead, _ := data["isRead"].(bool); isRead {
			status = "✅ read"
		}
		fmt.Printf("%s - %v\n", status, data["title"])
		fmt.Printf("  User:    %v\n", data["userId"])
		fmt.Printf("  Type:    %v\n", data["type"])
		fmt.Printf("  Message: %v\n", data["message"])
		fmt.Printf("  Created: %v\n", data["createdAt"])
		fmt.Println("---")
	}
}

func clearNotifications(ctx context.Context, db *firestore.Client) {
	docs, err := db.Collection("notifications").Documents(ctx).GetAll()
	if err != nil {
		log.Fatal("Failed to fetch notifications", "error", err)
	}

	if len(docs) == 0 {
		fmt.Println("No notifications to delete")
		return
	}

	bw := db.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			log.Fatal("Failed to queue notification delete", "error", err)
		}
	}
	bw.End()

	log.Info("✅ Deleted notifications", "count", len(docs))
}

// verifyUsers prints every user and whether the relay could currently reach
// them with a unicast send.
func verifyUsers(ctx context.Context, db *firestore.Client) {
	docs, err := db.Collection("users").Documents(ctx).GetAll()
	if err != nil {
		log.Fatal("Failed to fetch users", "error", err)
	}

	if len(docs) == 0 {
		fmt.Println("No users in the database")
		return
	}

	withToken := 0
	for _, doc := range docs {
		data := doc.Data()
		name, _ := data["name"].(string)
		token, _ := data["fcmToken"].(string)

		marker := "❌ no token"
		if token != "" {
			marker = "✅ " + token[:min(10, len(token))] + "..."
			withToken++
		}
		fmt.Printf("%-20s %-30s %s\n", doc.Ref.ID, name, marker)
	}

	fmt.Printf("\n%d/%d users reachable by unicast push\n", withToken, len(docs))
}
