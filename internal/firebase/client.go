package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps the Firebase services the relay depends on.
type Client struct {
	app       *fb.App
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// NewClient creates a new Firebase client with Firestore and Cloud Messaging access.
// projectID may be empty, in which case it is taken from the service account.
func NewClient(ctx context.Context, projectID, credJSON string) (*Client, error) {
	opt := option.WithCredentialsJSON([]byte(credJSON))

	config := &fb.Config{
		ProjectID: projectID,
	}

	app, err := fb.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Messaging client: %w", err)
	}

	return &Client{
		app:       app,
		Firestore: firestoreClient,
		Messaging: messagingClient,
	}, nil
}

// Auth returns the Firebase Auth client. Only the provisioning CLI needs it.
func (c *Client) Auth(ctx context.Context) (*auth.Client, error) {
	authClient, err := c.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return authClient, nil
}

// Close closes the Firestore client.
func (c *Client) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
