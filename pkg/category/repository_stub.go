package category

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepositoryStub is an in-memory Repository. InUse emulates the foreign key
// check of the real store, Err makes every call fail.
type RepositoryStub struct {
	mu        sync.Mutex
	data      map[string]Category
	InUse     func(id string) bool
	Err       error
	ListCalls int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[string]Category{}}
}

func (s *RepositoryStub) List(ctx context.Context, userId int) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	categories := make([]Category, 0, len(s.data))
	for _, c := range s.data {
		if c.UserId == userId {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, category Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Category{}, s.Err
	}
	if category.Id == "" {
		category.Id = uuid.NewString()
	}
	category.UserId = userId
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	s.data[category.Id] = category
	return category, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, category Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Category{}, s.Err
	}
	existing, ok := s.data[category.Id]
	if !ok || existing.UserId != userId {
		return Category{}, ErrCategoryNotFound
	}
	category.UserId = userId
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	s.data[category.Id] = category
	return category, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.data[id]
	if !ok || existing.UserId != userId {
		return ErrCategoryNotFound
	}
	if s.InUse != nil && s.InUse(id) {
		return ErrCategoryInUse
	}
	delete(s.data, id)
	return nil
}

// Put stores category directly, bypassing Create.
func (s *RepositoryStub) Put(category Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[category.Id] = category
}

// OwnedByAnotherUser reports whether id is stored for a user other than userId.
func (s *RepositoryStub) OwnedByAnotherUser(id string, userId int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[id]
	return ok && stored.UserId != userId
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
