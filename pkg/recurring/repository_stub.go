package recurring

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
	data            map[string]RecurringTransaction
	CheckReferences func(userId int, categoryId, cardId string) error
	Err             error
	ListCalls       int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[string]RecurringTransaction{}}
}

func (s *RepositoryStub) List(ctx context.Context, userId int) ([]RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]RecurringTransaction, 0, len(s.data))
	for _, rt := range s.data {
		if rt.UserId == userId {
			result = append(result, rt)
		}
	}
	sortByNextExecution(result)
	return result, nil
}

func (s *RepositoryStub) ListDue(ctx context.Context, day time.Time) ([]RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]RecurringTransaction, 0)
	for _, rt := range s.data {
		if rt.IsDue(day) {
			result = append(result, rt)
		}
	}
	sortByNextExecution(result)
	return result, nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return RecurringTransaction{}, s.Err
	}
	if err := s.checkReferences(userId, recurring); err != nil {
		return RecurringTransaction{}, err
	}
	if recurring.Id == "" {
		recurring.Id = uuid.NewString()
	}
	if recurring.NextExecutionDate.IsZero() {
		recurring.NextExecutionDate = recurring.StartDate
	}
	recurring.UserId = userId
	recurring.CreatedAt = time.Now()
	recurring.UpdatedAt = recurring.CreatedAt
	s.data[recurring.Id] = recurring
	return recurring, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, recurring RecurringTransaction) (RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return RecurringTransaction{}, s.Err
	}
	existing, ok := s.data[recurring.Id]
	if !ok || existing.UserId != userId {
		return RecurringTransaction{}, ErrRecurringNotFound
	}
	if err := s.checkReferences(userId, recurring); err != nil {
		return RecurringTransaction{}, err
	}
	recurring.UserId = userId
	recurring.CreatedAt = existing.CreatedAt
	recurring.UpdatedAt = time.Now()
	s.data[recurring.Id] = recurring
	return recurring, nil
}

func (s *RepositoryStub) checkReferences(userId int, recurring RecurringTransaction) error {
	if s.CheckReferences == nil {
		return nil
	}
	return s.CheckReferences(userId, recurring.CategoryId, recurring.CardId)
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.data[id]
	if !ok || existing.UserId != userId {
		return ErrRecurringNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *RepositoryStub) Put(recurring RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[recurring.Id] = recurring
}

func (s *RepositoryStub) Get(id string) (RecurringTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.data[id]
	return rt, ok
}

func (s *RepositoryStub) ReferencesCategory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.data {
		if rt.CategoryId == id {
			return true
		}
	}
	return false
}

func (s *RepositoryStub) ReferencesCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.data {
		if rt.CardId == id {
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

func sortByNextExecution(result []RecurringTransaction) {
	sort.Slice(result, func(i, j int) bool {
		if !result[i].NextExecutionDate.Equal(result[j].NextExecutionDate) {
			return result[i].NextExecutionDate.Before(result[j].NextExecutionDate)
		}
		return result[i].Description < result[j].Description
	})
}
