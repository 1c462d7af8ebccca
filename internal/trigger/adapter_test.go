package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/tech-service/push-relay/internal/logger"
	"github.com/tech-service/push-relay/internal/push"
)

type sentMessage struct {
	target  push.DeliveryTarget
	payload push.Payload
}

type fakeDispatcher struct {
	sendFunc func(ctx context.Context, target push.DeliveryTarget, payload push.Payload) (push.DispatchResult, error)

	calls []sentMessage
}

func (f *fakeDispatcher) Send(ctx context.Context, target push.DeliveryTarget, payload push.Payload) (push.DispatchResult, error) {
	f.calls = append(f.calls, sentMessage{target: target, payload: payload})
	if f.sendFunc != nil {
		return f.sendFunc(ctx, target, payload)
	}
	return push.DispatchResult{MessageID: "projects/test/messages/1"}, nil
}

func newTestAdapter(dispatcher *fakeDispatcher) *Adapter {
	log := logger.New(logger.Config{}).WithComponent("trigger-test")
	return NewAdapter(dispatcher, log)
}

func TestAdapterTypeFilter(t *testing.T) {
	ctx := context.Background()

	for _, kind := range []string{"service_status_change", "general", ""} {
		t.Run("skips "+kind, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			adapter := newTestAdapter(dispatcher)

			adapter.Handle(ctx, "doc1", IntentRecord{UserID: "tech7", Type: kind})

			if len(dispatcher.calls) != 0 {
				t.Errorf("expected zero dispatch calls for type %q, got %d", kind, len(dispatcher.calls))
			}
		})
	}
}

func TestAdapterDispatchesAssignment(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	adapter := newTestAdapter(dispatcher)

	adapter.Handle(ctx, "doc1", IntentRecord{
		UserID: "tech7",
		Type:   push.KindServiceAssignment,
		Data:   map[string]interface{}{"serviceId": "s1"},
	})

	if len(dispatcher.calls) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(dispatcher.calls))
	}

	sent := dispatcher.calls[0]
	if sent.target.Topic != "technician_tech7" {
		t.Errorf("expected topic technician_tech7, got %q", sent.target.Topic)
	}
	if sent.payload.Title != "Nuevo Servicio Asignado" {
		t.Errorf("expected default title, got %q", sent.payload.Title)
	}
	if sent.payload.Data[push.AttrServiceID] != "s1" {
		t.Errorf("expected serviceId s1, got %q", sent.payload.Data[push.AttrServiceID])
	}
	for _, key := range []string{push.AttrServiceTitle, push.AttrClientName, push.AttrLocation} {
		if sent.payload.Data[key] != "" {
			t.Errorf("expected key %q empty, got %q", key, sent.payload.Data[key])
		}
	}
}

func TestAdapterDuplicateRecordsDispatchTwice(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	adapter := newTestAdapter(dispatcher)

	rec := IntentRecord{UserID: "tech7", Type: push.KindServiceAssignment}

	// The feed is at-least-once and no dedup key is tracked, so a replayed
	// record means a second independent send.
	adapter.Handle(ctx, "doc1", rec)
	adapter.Handle(ctx, "doc1", rec)

	if len(dispatcher.calls) != 2 {
		t.Errorf("expected two independent dispatches, got %d", len(dispatcher.calls))
	}
}

func TestAdapterSwallowsDispatchFailure(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{
		sendFunc: func(ctx context.Context, target push.DeliveryTarget, payload push.Payload) (push.DispatchResult, error) {
			return push.DispatchResult{}, &push.DeliveryError{Backend: errors.New("topic quota exceeded")}
		},
	}
	adapter := newTestAdapter(dispatcher)

	// Must not panic and must not retry.
	adapter.Handle(ctx, "doc1", IntentRecord{UserID: "tech7", Type: push.KindServiceAssignment})

	if len(dispatcher.calls) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(dispatcher.calls))
	}
}

func TestAdapterDropsRecordWithoutUser(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	adapter := newTestAdapter(dispatcher)

	adapter.Handle(ctx, "doc1", IntentRecord{Type: push.KindServiceAssignment})

	if len(dispatcher.calls) != 0 {
		t.Errorf("expected zero dispatch calls, got %d", len(dispatcher.calls))
	}
}

func TestAdapterDropsNonStringAttributes(t *testing.T) {
	ctx := context.Background()
	dispatcher := &fakeDispatcher{}
	adapter := newTestAdapter(dispatcher)

	adapter.Handle(ctx, "doc1", IntentRecord{
		UserID: "tech7",
		Type:   push.KindServiceAssignment,
		Data: map[string]interface{}{
			"serviceId": "s1",
			"attempts":  int64(3),
		},
	})

	if len(dispatcher.calls) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(dispatcher.calls))
	}

	sent := dispatcher.calls[0]
	if sent.payload.Data["serviceId"] != "s1" {
		t.Errorf("expected serviceId s1, got %q", sent.payload.Data["serviceId"])
	}
	if _, ok := sent.payload.Data["attempts"]; ok {
		t.Error("expected non-string attribute to be dropped")
	}
}
