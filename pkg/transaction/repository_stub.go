package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepositoryStub is an in-memory Repository. CheckReferences emulates the
// foreign keys of the real store on Create and Update.
type RepositoryStub struct {
	mu              sync.Mutex
	data            map[string]Transaction
	CheckReferences func(userId int, categoryId, cardId string) error
	Err             error
	ListCalls       int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[string]Transaction{}}
}

func (s *RepositoryStub) List(ctx context.Context, userId int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	transactions := make([]Transaction, 0, len(s.data))
	for _, t := range s.data {
		if t.UserId == userId {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].TransactionDate.Equal(transactions[j].TransactionDate) {
			return transactions[i].TransactionDate.After(transactions[j].TransactionDate)
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Transaction{}, s.Err
	}
	if err := s.checkReferences(userId, transaction); err != nil {
		return Transaction{}, err
	}
	if transaction.Id == "" {
		transaction.Id = uuid.NewString()
	}
	transaction.UserId = userId
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	s.data[transaction.Id] = transaction
	return transaction, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Transaction{}, s.Err
	}
	existing, ok := s.data[transaction.Id]
	if !ok || existing.UserId != userId {
		return Transaction{}, ErrTransactionNotFound
	}
	if err := s.checkReferences(userId, transaction); err != nil {
		return Transaction{}, err
	}
	transaction.UserId = userId
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now()
	s.data[transaction.Id] = transaction
	return transaction, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.data[id]
	if !ok || existing.UserId != userId {
		return ErrTransactionNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *RepositoryStub) checkReferences(userId int, transaction Transaction) error {
	if s.CheckReferences == nil {
		return nil
	}
	return s.CheckReferences(userId, transaction.CategoryId, transaction.CardId)
}

func (s *RepositoryStub) Put(transaction Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[transaction.Id] = transaction
}

// ReferencesCategory reports whether any stored transaction uses the category.
func (s *RepositoryStub) ReferencesCategory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data {
		if t.CategoryId == id {
			return true
		}
	}
	return false
}

// ReferencesCard reports whether any stored transaction uses the card.
func (s *RepositoryStub) ReferencesCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data {
		if t.CardId == id {
			return true
		}
	}
	return false
}

func (s *RepositoryStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ListCalls
}

func (s *RepositoryStub) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}
