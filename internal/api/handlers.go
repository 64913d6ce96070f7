package api

import (
	"encoding/json"
	"net/http"

	"tryout-be/internal/auth"
	"tryout-be/internal/logger"
	"tryout-be/internal/middleware"
	"tryout-be/internal/payment"

	"go.uber.org/zap"
)

// Handler serves the payment core's external contract as plain JSON
// endpoints. The registration UI, dashboards, and any CLI tooling all
// talk to the core through these routes.
type Handler struct {
	payments payment.Service
	auth     *auth.Service
}

func NewHandler(payments payment.Service, authSvc *auth.Service) *Handler {
	return &Handler{payments: payments, auth: authSvc}
}

// Routes mounts every endpoint on a fresh mux. Settlement endpoints sit
// behind the staff-token middleware; everything else is public.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /payments/methods", h.listMethods)
	mux.HandleFunc("POST /payments/sessions", h.createSession)
	mux.HandleFunc("GET /payments/sessions/{id}", h.getSession)
	mux.HandleFunc("POST /payments/sessions/{id}/verify", h.verifySession)

	mux.Handle("POST /payments/sessions/{id}/complete",
		middleware.RequireStaff(http.HandlerFunc(h.completeSession)))
	mux.Handle("POST /payments/sessions/{id}/reject",
		middleware.RequireStaff(http.HandlerFunc(h.rejectSession)))
	mux.Handle("GET /payments/stats",
		middleware.RequireStaff(http.HandlerFunc(h.stats)))

	mux.HandleFunc("POST /auth/login", h.login)

	return mux
}

type createSessionRequest struct {
	AssessmentID uint           `json:"assessment_id"`
	Method       payment.Method `json:"method"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	sess, err := h.payments.CreatePaymentSession(r.Context(), payment.CreateSessionInput{
		AssessmentID: req.AssessmentID,
		Method:       req.Method,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.payments.GetPaymentSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) verifySession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.payments.VerifyPaymentSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if claims, ok := middleware.StaffFromContext(r.Context()); ok {
		logger.FromCtx(r.Context()).Info("manual settlement confirmed",
			zap.String("session_id", id),
			zap.Uint("staff_id", claims.StaffID),
			zap.String("role", claims.Role),
		)
	}

	if err := h.payments.CompletePaymentSession(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rejectSession(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.RejectPaymentSession(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.ListPaymentMethods())
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.Stats())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
