package app

import (
	"github.com/Thucosta0/financepro-sub000/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Session
	r.HandleFunc("/api/session", deps.Handler.StartSession).Methods("POST")
	r.HandleFunc("/api/session/refresh", deps.Handler.RefreshSession).Methods("POST")
	r.HandleFunc("/api/session", deps.Handler.EndSession).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/categories", deps.Handler.ListCategories).Methods("GET")
	r.HandleFunc("/api/categories", deps.Handler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/categories/{id}", deps.Handler.UpdateCategory).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", deps.Handler.DeleteCategory).Methods("DELETE")

	// Cards
	r.HandleFunc("/api/cards", deps.Handler.ListCards).Methods("GET")
	r.HandleFunc("/api/cards", deps.Handler.CreateCard).Methods("POST")
	r.HandleFunc("/api/cards/{id}", deps.Handler.UpdateCard).Methods("PUT")
	r.HandleFunc("/api/cards/{id}", deps.Handler.DeleteCard).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transactions/export", deps.ReportHandler.Export).Methods("GET")
	r.HandleFunc("/api/transactions", deps.Handler.ListTransactions).Methods("GET")
	r.HandleFunc("/api/transactions", deps.Handler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/transactions/{id}", deps.Handler.UpdateTransaction).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", deps.Handler.DeleteTransaction).Methods("DELETE")

	// Recurring transactions
	r.HandleFunc("/api/recurring", deps.Handler.ListRecurring).Methods("GET")
	r.HandleFunc("/api/recurring", deps.Handler.CreateRecurring).Methods("POST")
	r.HandleFunc("/api/recurring/{id}", deps.Handler.UpdateRecurring).Methods("PUT")
	r.HandleFunc("/api/recurring/{id}", deps.Handler.DeleteRecurring).Methods("DELETE")
	r.HandleFunc("/api/recurring/{id}/execute", deps.Handler.ExecuteRecurring).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budgets", deps.Handler.ListBudgets).Methods("GET")
	r.HandleFunc("/api/budgets", deps.Handler.CreateBudget).Methods("POST")
	r.HandleFunc("/api/budgets/{id}", deps.Handler.UpdateBudget).Methods("PUT")
	r.HandleFunc("/api/budgets/{id}", deps.Handler.DeleteBudget).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/summary", deps.Handler.Summary).Methods("GET")
	r.HandleFunc("/api/cache/stats", deps.Handler.CacheStats).Methods("GET")

	// Subscription
	r.HandleFunc("/api/subscription/status", deps.SubscriptionHandler.Status).Methods("GET")
	r.HandleFunc("/api/webhooks/billing", deps.SubscriptionHandler.Webhook).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
}
