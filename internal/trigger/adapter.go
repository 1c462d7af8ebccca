package trigger

import (
	"context"
	"log/slog"

	"github.com/tech-service/push-relay/internal/logger"
	"github.com/tech-service/push-relay/internal/metrics"
	"github.com/tech-service/push-relay/internal/push"
)

// Dispatcher dispatches one payload to one target.
type Dispatcher interface {
	Send(ctx context.Context, target push.DeliveryTarget, payload push.Payload) (push.DispatchResult, error)
}

// IntentRecord mirrors a document in the notifications collection. Fields the
// larger application writes but the relay never reads (isRead, createdAt) are
// deliberately absent.
type IntentRecord struct {
	UserID  string                 `firestore:"userId"`
	Type    string                 `firestore:"type"`
	Title   string                 `firestore:"title"`
	Message string                 `firestore:"message"`
	Data    map[string]interface{} `firestore:"data"`
}

// Adapter turns new notification records into topic broadcasts. Fire and
// forget: every failure is logged and absorbed, nothing propagates back to
// the change feed.
type Adapter struct {
	gateway Dispatcher
	logger  *logger.Logger
}

// NewAdapter creates a new trigger adapter.
func NewAdapter(gateway Dispatcher, logger *logger.Logger) *Adapter {
	return &Adapter{
		gateway: gateway,
		logger:  logger,
	}
}

// Handle processes one newly observed record. The feed is at-least-once;
// a record delivered twice is dispatched twice, no dedup key is tracked.
func (a *Adapter) Handle(ctx context.Context, docID string, rec IntentRecord) {
	log := a.logger.WithContext(ctx).WithComponent("trigger")

	if rec.Type != push.KindServiceAssignment {
		metrics.IntentsSkippedTotal.Inc()
		log.Debug("skipping record",
			slog.String("doc_id", docID),
			slog.String("type", rec.Type))
		return
	}

	if rec.UserID == "" {
		log.Warn("service assignment record without userId, dropping",
			slog.String("doc_id", docID))
		return
	}

	intent := push.Intent{
		RecipientID: rec.UserID,
		Kind:        rec.Type,
		Title:       rec.Title,
		Body:        rec.Message,
		Attributes:  stringAttributes(rec.Data),
	}

	target := push.TopicForTechnician(rec.UserID)
	payload := push.BuildPayload(intent, push.AssignmentDefaults)

	result, err := a.gateway.Send(ctx, target, payload)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues("trigger", "error").Inc()
		log.Error("topic dispatch failed",
			slog.String("doc_id", docID),
			slog.String("topic", target.Topic),
			slog.String("error", err.Error()))
		return
	}

	metrics.DispatchTotal.WithLabelValues("trigger", "success").Inc()
	log.Info("topic dispatch sent",
		slog.String("doc_id", docID),
		slog.String("topic", target.Topic),
		slog.String("message_id", result.MessageID))
}

// stringAttributes keeps only string-valued entries of a loosely typed data
// map. The stored records are written by several app versions, so anything
// else gets dropped rather than stringified.
func stringAttributes(data map[string]interface{}) map[string]string {
	if len(data) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			attrs[k] = s
		}
	}
	return attrs
}
