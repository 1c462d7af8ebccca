package push

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/tech-service/push-relay/internal/logger"
)

// fcmSender is the slice of *messaging.Client the gateway needs. Narrowed to
// an interface so tests can emulate the backend.
type fcmSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Gateway issues FCM sends. One invocation means exactly one outbound call;
// failures are surfaced to the caller, never retried.
type Gateway struct {
	sender    fcmSender
	projectID string
	credJSON  string
	logger    *logger.Logger
}

// NewGateway creates a new dispatch gateway. projectID and credJSON are only
// used to generate a reproduction curl for failed sends when debug logging is
// on; both may be empty.
func NewGateway(sender fcmSender, projectID, credJSON string, logger *logger.Logger) *Gateway {
	return &Gateway{
		sender:    sender,
		projectID: projectID,
		credJSON:  credJSON,
		logger:    logger,
	}
}

// Send dispatches one payload to one target, unicast or topic.
func (g *Gateway) Send(ctx context.Context, target DeliveryTarget, payload Payload) (DispatchResult, error) {
	log := g.logger.WithContext(ctx).WithComponent("gateway")

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	if target.IsTopic() {
		message.Topic = target.Topic
		log.Info("sending topic broadcast",
			slog.String("topic", target.Topic),
			slog.String("title", payload.Title))
	} else {
		message.Token = target.Token
		log.Info("sending unicast notification",
			slog.String("token_prefix", target.Token[:min(10, len(target.Token))]+"..."),
			slog.String("title", payload.Title))
	}

	messageID, err := g.sender.Send(ctx, message)
	if err != nil {
		log.Error("fcm send failed",
			slog.String("error", err.Error()))
		if g.credJSON != "" && log.Enabled(ctx, slog.LevelDebug) {
			log.Debug("fcm reproduction request",
				slog.String("curl", GenerateDebugCurl(ctx, g.credJSON, g.projectID, message)))
		}
		return DispatchResult{}, &DeliveryError{Backend: err}
	}

	log.Info("notification dispatched",
		slog.String("message_id", messageID))

	return DispatchResult{MessageID: messageID}, nil
}
