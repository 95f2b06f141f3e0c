package report

import (
	"context"
	"errors"
	"net/http"

	"github.com/Thucosta0/financepro-sub000/internal/rest"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Source provides the collections of the current user, going through the cache.
type Source interface {
	Transactions(ctx context.Context) ([]transaction.Transaction, error)
	Categories(ctx context.Context) ([]category.Category, error)
	Cards(ctx context.Context) ([]card.Card, error)
}

type Handler struct {
	source   Source
	renderer Renderer
}

func NewHandler(source Source, renderer Renderer) *Handler {
	return &Handler{source: source, renderer: renderer}
}

// Export godoc
// @Summary Export transactions as CSV
// @Tags Report
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/transactions/export [get]
// @Security XUserId
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting transactions")
	ctx := r.Context()

	statement, err := h.statement(ctx)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			rest.WriteError(w, http.StatusUnauthorized, "Usuário não autenticado", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	csv, err := h.renderer.Render(statement)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transacoes.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write csv export: %v", err)
	}
}

func (h *Handler) statement(ctx context.Context) (Statement, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return Statement{}, err
	}
	transactions, err := h.source.Transactions(ctx)
	if err != nil {
		return Statement{}, err
	}
	categories, err := h.source.Categories(ctx)
	if err != nil {
		return Statement{}, err
	}
	cards, err := h.source.Cards(ctx)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Transactions: transactions, Categories: categories, Cards: cards}, nil
}
