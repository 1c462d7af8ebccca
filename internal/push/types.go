package push

import "errors"

// KindServiceAssignment is the only record type the Trigger Adapter acts on.
const KindServiceAssignment = "service_assignment"

// Fixed data keys forwarded to the client app. Every payload carries all of
// them; absent attributes are sent as empty strings so the app can rely on a
// stable schema.
const (
	AttrServiceID    = "serviceId"
	AttrServiceTitle = "serviceTitle"
	AttrClientName   = "clientName"
	AttrLocation     = "location"
)

var (
	// ErrRecipientNotFound means the user document does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrTokenMissing means the user document exists but carries no FCM token.
	ErrTokenMissing = errors.New("recipient has no fcm token")
)

// Intent describes one request to notify a recipient. Title, Body and
// Attributes are optional; BuildPayload fills the gaps.
type Intent struct {
	RecipientID string
	Kind        string
	Title       string
	Body        string
	Attributes  map[string]string
}

// DeliveryTarget routes one dispatch: either a unicast device token or a
// per-technician topic. Constructed fresh per dispatch, never persisted.
type DeliveryTarget struct {
	Token string
	Topic string
}

// UnicastTarget builds a target for a single device token.
func UnicastTarget(token string) DeliveryTarget {
	return DeliveryTarget{Token: token}
}

// TopicTarget builds a target for a topic broadcast.
func TopicTarget(topic string) DeliveryTarget {
	return DeliveryTarget{Topic: topic}
}

// TopicForTechnician derives the broadcast topic for a technician.
func TopicForTechnician(recipientID string) DeliveryTarget {
	return TopicTarget("technician_" + recipientID)
}

// IsTopic reports whether the target is a topic broadcast.
func (t DeliveryTarget) IsTopic() bool {
	return t.Topic != ""
}

// Payload is the normalized notification handed to the gateway.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// DispatchResult carries the backend-assigned message id of a successful send.
// Ephemeral; it lives for one dispatch call and is echoed to the caller.
type DispatchResult struct {
	MessageID string
}

// DeliveryError wraps a failed FCM call. Terminal for the current dispatch:
// no retry, no backoff, no queueing.
type DeliveryError struct {
	Backend error
}

func (e *DeliveryError) Error() string {
	return "fcm delivery failed: " + e.Backend.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Backend
}
