package budget

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type StubBudgetRepo struct {
	mu   sync.Mutex
	data map[string]Budget
	// CheckCategory stands in for the category foreign key on Store and Update.
	CheckCategory func(userId int, categoryId string) error
	Err           error
	GetAllCalls   int
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{data: map[string]Budget{}}
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetAllCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	budgets := make([]Budget, 0, len(s.data))
	for _, budget := range s.data {
		if budget.UserId == userId {
			budgets = append(budgets, budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].CreatedAt.Before(budgets[j].CreatedAt) })
	return budgets, nil
}

func (s *StubBudgetRepo) Store(ctx context.Context, userId int, budget Budget) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Budget{}, s.Err
	}
	if err := s.checkCategory(userId, budget); err != nil {
		return Budget{}, err
	}
	if budget.Id == "" {
		budget.Id = uuid.NewString()
	}
	budget.UserId = userId
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	s.data[budget.Id] = budget
	return budget, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, userId int, budget Budget) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Budget{}, s.Err
	}
	existing, ok := s.data[budget.Id]
	if !ok || existing.UserId != userId {
		return Budget{}, ErrBudgetNotFound
	}
	if err := s.checkCategory(userId, budget); err != nil {
		return Budget{}, err
	}
	budget.UserId = userId
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = time.Now()
	s.data[budget.Id] = budget
	return budget, nil
}

func (s *StubBudgetRepo) checkCategory(userId int, budget Budget) error {
	if s.CheckCategory == nil {
		return nil
	}
	return s.CheckCategory(userId, budget.CategoryId)
}

func (s *StubBudgetRepo) Delete(ctx context.Context, userId int, budgetId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.data[budgetId]
	if !ok || existing.UserId != userId {
		return ErrBudgetNotFound
	}
	delete(s.data, budgetId)
	return nil
}

func (s *StubBudgetRepo) ReferencesCategory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, budget := range s.data {
		if budget.CategoryId == id {
			return true
		}
	}
	return false
}

func (s *StubBudgetRepo) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GetAllCalls
}

func (s *StubBudgetRepo) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *StubBudgetRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]Budget{}
}
