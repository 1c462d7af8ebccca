package push

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tech-service/push-relay/internal/logger"
)

// usersCollection holds the technician profiles, one document per user id,
// with the device token in the fcmToken field.
const usersCollection = "users"

// Resolver looks up delivery targets in Firestore.
type Resolver struct {
	firestoreClient *firestore.Client
	logger          *logger.Logger
}

// NewResolver creates a new resolver backed by Firestore.
func NewResolver(firestoreClient *firestore.Client, logger *logger.Logger) *Resolver {
	return &Resolver{
		firestoreClient: firestoreClient,
		logger:          logger,
	}
}

// Resolve maps a recipient id to a unicast delivery target. Every call does
// exactly one Firestore read; results are never cached, so a token rotated
// between calls is picked up on the next one.
func (r *Resolver) Resolve(ctx context.Context, recipientID string) (DeliveryTarget, error) {
	log := r.logger.WithContext(ctx).WithComponent("resolver")

	if recipientID == "" {
		return DeliveryTarget{}, fmt.Errorf("recipientID must be non-empty")
	}

	doc, err := r.firestoreClient.Collection(usersCollection).Doc(recipientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			log.Warn("user document not found",
				slog.String("recipient_id", recipientID))
			return DeliveryTarget{}, ErrRecipientNotFound
		}
		log.Error("failed to fetch user document",
			slog.String("recipient_id", recipientID),
			slog.String("error", err.Error()))
		return DeliveryTarget{}, fmt.Errorf("failed to fetch user %s: %w", recipientID, err)
	}

	token, _ := doc.Data()["fcmToken"].(string)
	if token == "" {
		log.Warn("user has no stored fcm token",
			slog.String("recipient_id", recipientID))
		return DeliveryTarget{}, ErrTokenMissing
	}

	log.Debug("resolved delivery target",
		slog.String("recipient_id", recipientID),
		slog.String("token_prefix", token[:min(10, len(token))]+"..."))

	return UnicastTarget(token), nil
}
