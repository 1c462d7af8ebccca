package trigger

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tech-service/push-relay/internal/logger"
)

// notificationsCollection is where the larger application writes intent
// records; the relay only reads it.
const notificationsCollection = "notifications"

// resubscribeDelay is how long to wait before reopening a broken feed.
const resubscribeDelay = 5 * time.Second

// Listener subscribes to the Firestore change feed on the notifications
// collection and hands every added document to the adapter.
//
// The feed is at-least-once: a fresh subscription replays the whole
// collection as adds, so restarts re-dispatch old records. Accepted, per the
// same contract the Cloud Functions trigger had.
type Listener struct {
	firestoreClient *firestore.Client
	adapter         *Adapter
	logger          *logger.Logger
}

// NewListener creates a new change-feed listener.
func NewListener(firestoreClient *firestore.Client, adapter *Adapter, logger *logger.Logger) *Listener {
	return &Listener{
		firestoreClient: firestoreClient,
		adapter:         adapter,
		logger:          logger,
	}
}

// Run consumes the feed until ctx is cancelled. A broken subscription is
// reopened after a short delay; individual dispatch failures never reach
// this loop.
func (l *Listener) Run(ctx context.Context) {
	log := l.logger.WithComponent("trigger-listener")
	log.Info("starting notifications change-feed listener",
		slog.String("collection", notificationsCollection))

	for {
		err := l.listen(ctx)
		if err == nil {
			log.Info("notifications change-feed listener stopped")
			return
		}

		log.Error("change feed interrupted, resubscribing",
			slog.String("error", err.Error()),
			slog.Duration("delay", resubscribeDelay))

		select {
		case <-ctx.Done():
			log.Info("notifications change-feed listener stopped")
			return
		case <-time.After(resubscribeDelay):
		}
	}
}

// listen consumes one subscription. Returns nil when ctx ended, the terminal
// iterator error otherwise.
func (l *Listener) listen(ctx context.Context) error {
	log := l.logger.WithComponent("trigger-listener")

	it := l.firestoreClient.Collection(notificationsCollection).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}

			var rec IntentRecord
			if err := change.Doc.DataTo(&rec); err != nil {
				log.Warn("skipping malformed notification record",
					slog.String("doc_id", change.Doc.Ref.ID),
					slog.String("error", err.Error()))
				continue
			}

			l.adapter.Handle(ctx, change.Doc.Ref.ID, rec)
		}
	}
}
