package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/rest"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Billing provider event types accepted by the webhook.
const (
	CheckoutCompleted   = "checkout.session.completed"
	SubscriptionCreated = "customer.subscription.created"
	SubscriptionUpdated = "customer.subscription.updated"
	SubscriptionDeleted = "customer.subscription.deleted"
	InvoicePaid         = "invoice.paid"
	InvoicePaymentFail  = "invoice.payment_failed"
)

type WebhookEventDTO struct {
	Type string         `json:"type"`
	Data WebhookDataDTO `json:"data"`
}

type WebhookDataDTO struct {
	UserUid          string     `json:"userUid"`
	SubscriptionId   string     `json:"subscriptionId"`
	Status           string     `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

type userLookup interface {
	GetUserByUid(ctx context.Context, uid string) (user.User, error)
}

type Handler struct {
	evaluator *Evaluator
	records   Repository
	users     userLookup
}

func NewHandler(evaluator *Evaluator, records Repository, users userLookup) *Handler {
	return &Handler{evaluator: evaluator, records: records, users: users}
}

// Status godoc
// @Summary Subscription status of the current user
// @Tags Subscription
// @Produce json
// @Success 200 {object} Evaluation
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/subscription/status [get]
// @Security XUserId
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	currentUser, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Usuário não autenticado", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.evaluator.Evaluate(currentUser))
}

// Webhook godoc
// @Summary Billing provider webhook
// @Description Stores the subscription state reported by the billing provider. Unknown event types are ignored.
// @Tags Subscription
// @Accept json
// @Param event body WebhookEventDTO true "Event"
// @Success 200 "Accepted"
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse "Unknown user"
// @Router /api/webhooks/billing [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var event WebhookEventDTO
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	log.Debugf("billing event %s received", event.Type)

	status, ok := recordStatus(event)
	if !ok {
		log.Infof("ignoring billing event %s", event.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	u, err := h.users.GetUserByUid(r.Context(), event.Data.UserUid)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "User not found", event.Data.UserUid)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, err = h.records.Upsert(r.Context(), Record{
		UserId:                 u.Id,
		ProviderSubscriptionId: event.Data.SubscriptionId,
		Status:                 status,
		CurrentPeriodEnd:       event.Data.CurrentPeriodEnd,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func recordStatus(event WebhookEventDTO) (RecordStatus, bool) {
	switch event.Type {
	case CheckoutCompleted, SubscriptionCreated, InvoicePaid:
		return RecordActive, true
	case SubscriptionDeleted:
		return RecordCanceled, true
	case InvoicePaymentFail:
		return RecordPastDue, true
	case SubscriptionUpdated:
		switch RecordStatus(event.Data.Status) {
		case RecordCanceled:
			return RecordCanceled, true
		case RecordPastDue:
			return RecordPastDue, true
		}
		return RecordActive, true
	}
	return "", false
}

// RequireActive rejects mutating requests of users whose trial expired.
// Paths starting with one of the exempt prefixes are never gated.
func RequireActive(evaluator *Evaluator, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, mutating := actionOf(r.Method)
			if !mutating || isExempt(r.URL.Path, exempt) {
				next.ServeHTTP(w, r)
				return
			}
			currentUser, err := user.CurrentUser(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !evaluator.CanPerformAction(currentUser, action) {
				log.Debugf("user %d blocked from %s: trial expired", currentUser.Id, action)
				rest.WriteError(w, http.StatusPaymentRequired, evaluator.GetStatusText(currentUser), string(Expired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isExempt(path string, exempt []string) bool {
	for _, prefix := range exempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func actionOf(method string) (Action, bool) {
	switch method {
	case http.MethodPost:
		return Create, true
	case http.MethodPut, http.MethodPatch:
		return Update, true
	case http.MethodDelete:
		return Delete, true
	}
	return "", false
}
