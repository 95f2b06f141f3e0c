package finance

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thucosta0/financepro-sub000/internal/rest"
	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	msgCategoryInUse = "Não é possível excluir categoria com transações vinculadas"
	msgCardInUse     = "Não é possível excluir cartão com transações vinculadas"
	msgInvalidData   = "Dados inválidos"
	msgInvalidBody   = "Formato de requisição inválido"
	msgNotFound      = "Registro não encontrado"
	msgUnauthorized  = "Usuário não autenticado"
	msgIdMismatch    = "Identificador do corpo difere do informado na URL"
	msgServerError   = "Erro ao processar a solicitação. Tente novamente."
)

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// StartSession godoc
// @Summary Start the financial session
// @Description Loads every collection of the current user and warms related data
// @Tags Session
// @Success 204 "No Content"
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/session [post]
// @Security XUserId
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	log.Debug("Starting financial session")
	if err := h.coordinator.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	if err := h.coordinator.PrefetchRelatedData(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshSession godoc
// @Summary Reload all collections bypassing the cache
// @Tags Session
// @Success 204 "No Content"
// @Router /api/session/refresh [post]
// @Security XUserId
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EndSession godoc
// @Summary End the financial session
// @Description Drops the in-memory state and every cached entry of the current user
// @Tags Session
// @Success 204 "No Content"
// @Router /api/session [delete]
// @Security XUserId
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.Teardown(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories godoc
// @Summary List categories
// @Tags Category
// @Produce json
// @Success 200 {array} CategoryDTO
// @Router /api/categories [get]
// @Security XUserId
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.coordinator.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(categories, categoryToDTO))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body CategoryDTO true "Category"
// @Success 201 {object} CategoryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/categories [post]
// @Security XUserId
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating category")
	var dto CategoryDTO
	if !decode(w, r, &dto) {
		return
	}
	// ids are always generated by the store
	dto.Id = ""
	created, err := h.coordinator.AddCategory(r.Context(), dtoToCategory(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, categoryToDTO(created))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDTO
	if !decode(w, r, &dto) || !matchPathId(w, r, &dto.Id) {
		return
	}
	updated, err := h.coordinator.UpdateCategory(r.Context(), dtoToCategory(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, categoryToDTO(updated))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags Category
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Category still in use"
// @Router /api/categories/{id} [delete]
// @Security XUserId
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.coordinator.Cards(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(cards, cardToDTO))
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating card")
	var dto CardDTO
	if !decode(w, r, &dto) {
		return
	}
	dto.Id = ""
	created, err := h.coordinator.AddCard(r.Context(), dtoToCard(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, cardToDTO(created))
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var dto CardDTO
	if !decode(w, r, &dto) || !matchPathId(w, r, &dto.Id) {
		return
	}
	updated, err := h.coordinator.UpdateCard(r.Context(), dtoToCard(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, cardToDTO(updated))
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.DeleteCard(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions godoc
// @Summary List transactions, newest first
// @Tags Transaction
// @Produce json
// @Success 200 {array} TransactionDTO
// @Router /api/transactions [get]
// @Security XUserId
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.coordinator.Transactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(transactions, transactionToDTO))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating transaction")
	var dto TransactionDTO
	if !decode(w, r, &dto) {
		return
	}
	dto.Id = ""
	t, err := dtoToTransaction(dto)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.coordinator.AddTransaction(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, transactionToDTO(created))
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto TransactionDTO
	if !decode(w, r, &dto) || !matchPathId(w, r, &dto.Id) {
		return
	}
	t, err := dtoToTransaction(dto)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.coordinator.UpdateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, transactionToDTO(updated))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	definitions, err := h.coordinator.RecurringTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(definitions, recurringToDTO))
}

func (h *Handler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating recurring transaction")
	var dto RecurringTransactionDTO
	if !decode(w, r, &dto) {
		return
	}
	dto.Id = ""
	definition, err := dtoToRecurring(dto)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.coordinator.AddRecurringTransaction(r.Context(), definition)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, recurringToDTO(created))
}

func (h *Handler) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var dto RecurringTransactionDTO
	if !decode(w, r, &dto) || !matchPathId(w, r, &dto.Id) {
		return
	}
	definition, err := dtoToRecurring(dto)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.coordinator.UpdateRecurringTransaction(r.Context(), definition)
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, recurringToDTO(updated))
}

func (h *Handler) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.DeleteRecurringTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExecuteRecurring godoc
// @Summary Book one occurrence of a recurring transaction
// @Description Creates a transaction dated today and advances the next execution date
// @Tags Recurring
// @Produce json
// @Param id path string true "Recurring transaction ID"
// @Success 200 {object} ExecutionDTO
// @Failure 404 {object} ExecutionDTO "Unknown recurring transaction"
// @Router /api/recurring/{id}/execute [post]
// @Security XUserId
func (h *Handler) ExecuteRecurring(w http.ResponseWriter, r *http.Request) {
	created, executed, err := h.coordinator.ExecuteRecurringTransaction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !executed {
		rest.WriteJSON(w, http.StatusNotFound, ExecutionDTO{Executed: false})
		return
	}
	dto := transactionToDTO(created)
	rest.WriteJSON(w, http.StatusOK, ExecutionDTO{Executed: true, Transaction: &dto})
}

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.coordinator.Budgets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(budgets, budgetToDTO))
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating budget")
	var dto BudgetDTO
	if !decode(w, r, &dto) {
		return
	}
	dto.Id = ""
	created, err := h.coordinator.AddBudget(r.Context(), dtoToBudget(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, budgetToDTO(created))
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var dto BudgetDTO
	if !decode(w, r, &dto) || !matchPathId(w, r, &dto.Id) {
		return
	}
	updated, err := h.coordinator.UpdateBudget(r.Context(), dtoToBudget(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, budgetToDTO(updated))
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.DeleteBudget(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary godoc
// @Summary Income, expense and balance of the current user
// @Tags Summary
// @Produce json
// @Success 200 {object} Summary
// @Router /api/summary [get]
// @Security XUserId
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.coordinator.GetFinancialSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, summary)
}

// CacheStats godoc
// @Summary Cache hit/miss statistics
// @Tags Cache
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /api/cache/stats [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.coordinator.CacheStats())
}

func decode(w http.ResponseWriter, r *http.Request, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return false
	}
	return true
}

// matchPathId fills an empty body id from the {id} path variable and rejects
// bodies addressing another entity.
func matchPathId(w http.ResponseWriter, r *http.Request, bodyId *string) bool {
	pathId := mux.Vars(r)["id"]
	if *bodyId == "" {
		*bodyId = pathId
	}
	if *bodyId != pathId {
		rest.WriteError(w, http.StatusBadRequest, msgIdMismatch, "")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case validation.Is(err):
		rest.WriteError(w, http.StatusBadRequest, msgInvalidData, err.Error())
	case errors.Is(err, category.ErrCategoryInUse):
		rest.WriteError(w, http.StatusConflict, msgCategoryInUse, "")
	case errors.Is(err, card.ErrCardInUse):
		rest.WriteError(w, http.StatusConflict, msgCardInUse, "")
	case errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, card.ErrCardNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, recurring.ErrRecurringNotFound),
		errors.Is(err, budget.ErrBudgetNotFound):
		rest.WriteError(w, http.StatusNotFound, msgNotFound, "")
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, msgUnauthorized, "")
	default:
		log.Errorf("request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, msgServerError, "")
	}
}
