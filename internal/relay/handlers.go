package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	apierrors "github.com/tech-service/push-relay/internal/errors"
	"github.com/tech-service/push-relay/internal/logger"
	"github.com/tech-service/push-relay/internal/metrics"
	"github.com/tech-service/push-relay/internal/push"
)

// Resolver maps a recipient id to a delivery target.
type Resolver interface {
	Resolve(ctx context.Context, recipientID string) (push.DeliveryTarget, error)
}

// Gateway dispatches one payload to one target.
type Gateway interface {
	Send(ctx context.Context, target push.DeliveryTarget, payload push.Payload) (push.DispatchResult, error)
}

// SendPushRequest is the body of POST /sendPush. technicianId and userId are
// accepted aliases for the same field; older clients still send userId.
type SendPushRequest struct {
	TechnicianID string            `json:"technicianId"`
	UserID       string            `json:"userId"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data"`
	APIKey       string            `json:"apiKey"`
}

// SendPushResponse is returned on a successful dispatch.
type SendPushResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

// Handler serves the relay endpoints.
type Handler struct {
	resolver Resolver
	gateway  Gateway
	apiKey   string
	logger   *logger.Logger

	// Most recent /sendPush body, kept for diagnostic inspection only.
	// Last writer wins; the value never feeds a dispatch decision.
	mu          sync.Mutex
	lastRequest json.RawMessage
}

// NewHandler creates a new relay handler. An empty apiKey disables the
// shared-secret check.
func NewHandler(resolver Resolver, gateway Gateway, apiKey string, logger *logger.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		gateway:  gateway,
		apiKey:   apiKey,
		logger:   logger,
	}
}

// SendPush handles POST /sendPush.
func (h *Handler) SendPush(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx).WithComponent("relay")

	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "failed to read body", nil)
		return
	}

	var req SendPushRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apierrors.BadRequest(c, "invalid request: "+err.Error(), nil)
		return
	}

	// Retained before the credential check, like the original relay did.
	h.storeLastRequest(body)

	// Credential first: no store lookup happens for a bad secret.
	if h.apiKey != "" && req.APIKey != h.apiKey {
		apierrors.Unauthorized(c, "Unauthorized", nil)
		return
	}

	recipientID := req.TechnicianID
	if recipientID == "" {
		recipientID = req.UserID
	}
	if recipientID == "" {
		apierrors.BadRequest(c, "technicianId requerido", nil)
		return
	}

	ctx = logger.WithRecipientID(ctx, recipientID)
	log = h.logger.WithContext(ctx).WithComponent("relay")

	target, err := h.resolver.Resolve(ctx, recipientID)
	if err != nil {
		switch {
		case errors.Is(err, push.ErrRecipientNotFound):
			apierrors.NotFound(c, "Usuario no encontrado", nil)
		case errors.Is(err, push.ErrTokenMissing):
			apierrors.NotFound(c, "Usuario sin token FCM", nil)
		default:
			log.Error("resolver failed", "error", err.Error())
			apierrors.Internal(c, err.Error(), nil)
		}
		return
	}

	payload := push.BuildPayload(push.Intent{
		RecipientID: recipientID,
		Title:       req.Title,
		Body:        req.Body,
		Attributes:  req.Data,
	}, push.RelayDefaults)

	result, err := h.gateway.Send(ctx, target, payload)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues("relay", "error").Inc()
		log.Error("dispatch failed", "error", err.Error())
		apierrors.Internal(c, err.Error(), nil)
		return
	}

	metrics.DispatchTotal.WithLabelValues("relay", "success").Inc()
	c.JSON(http.StatusOK, SendPushResponse{Success: true, Result: result.MessageID})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root handles GET / and confirms the server is alive.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend activo")
}

// LastRequest handles GET /lastRequest, echoing the most recent /sendPush
// body. Best-effort: the value lives in process memory and is lost on restart.
func (h *Handler) LastRequest(c *gin.Context) {
	h.mu.Lock()
	body := h.lastRequest
	h.mu.Unlock()

	if body == nil {
		c.JSON(http.StatusOK, gin.H{"lastRequest": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastRequest": body})
}

func (h *Handler) storeLastRequest(body []byte) {
	h.mu.Lock()
	h.lastRequest = json.RawMessage(body)
	h.mu.Unlock()
}
