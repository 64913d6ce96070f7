package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tryout-be/internal/logger"
	"tryout-be/internal/payment"

	"go.uber.org/zap"
)

const eventCheckoutCompleted = "checkout.session.completed"

// Event is the JSON envelope the hosted provider sends.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

type Handler struct {
	payments      payment.Service
	callbackToken string
}

func NewHandler(payments payment.Service, callbackToken string) *Handler {
	return &Handler{
		payments:      payments,
		callbackToken: callbackToken,
	}
}

func (h *Handler) verifySignature(r *http.Request) error {
	if h.callbackToken == "" {
		return nil // skip in dev
	}
	if r.Header.Get("X-Callback-Token") != h.callbackToken {
		return errors.New("invalid webhook signature")
	}
	return nil
}

// ServeHTTP receives provider notifications. The event only tells us a
// checkout may have settled; the actual decision runs through the same
// fail-closed verify path the polling endpoint uses, so a forged or
// premature event can never mark a session paid.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := h.verifySignature(r); err != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if event.Type != eventCheckoutCompleted {
		// Ignore everything else.
		w.WriteHeader(http.StatusOK)
		return
	}

	sessionID := event.Data.Object.Metadata["session_id"]
	if sessionID == "" {
		http.Error(w, "missing session_id metadata", http.StatusBadRequest)
		return
	}

	log.Info("checkout webhook received",
		zap.String("event_id", event.ID),
		zap.String("session_id", sessionID),
	)

	_, err = h.payments.VerifyPaymentSession(r.Context(), sessionID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, payment.ErrSessionNotFound):
		http.Error(w, "unknown session", http.StatusNotFound)
	default:
		log.Error("webhook verify failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		http.Error(w, "verification failed", http.StatusBadGateway)
	}
}
