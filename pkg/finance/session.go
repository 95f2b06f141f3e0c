package finance

import (
	"sync"

	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
)

// Session holds the in-memory collections of one signed-in user.
type Session struct {
	mu           sync.Mutex
	userId       int
	closed       bool
	loaded       map[string]bool
	categories   []category.Category
	cards        []card.Card
	transactions []transaction.Transaction
	recurring    []recurring.RecurringTransaction
	budgets      []budget.Budget
}

func newSession(userId int) *Session {
	return &Session{
		userId:       userId,
		loaded:       make(map[string]bool),
		categories:   []category.Category{},
		cards:        []card.Card{},
		transactions: []transaction.Transaction{},
		recurring:    []recurring.RecurringTransaction{},
		budgets:      []budget.Budget{},
	}
}

func (s *Session) UserId() int {
	return s.userId
}

// close marks the session torn down. Later whileOpen calls do nothing.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// whileOpen runs fn with the session locked and reports whether it ran.
func (s *Session) whileOpen(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

func (s *Session) isLoaded(collection string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded[collection]
}
