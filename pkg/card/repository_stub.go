package card

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu        sync.Mutex
	data      map[string]Card
	InUse     func(id string) bool
	Err       error
	ListCalls int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[string]Card{}}
}

func (s *RepositoryStub) List(ctx context.Context, userId int) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	cards := make([]Card, 0, len(s.data))
	for _, c := range s.data {
		if c.UserId == userId {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
	return cards, nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, card Card) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Card{}, s.Err
	}
	if card.Id == "" {
		card.Id = uuid.NewString()
	}
	card.UserId = userId
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	s.data[card.Id] = card
	return card, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, card Card) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Card{}, s.Err
	}
	existing, ok := s.data[card.Id]
	if !ok || existing.UserId != userId {
		return Card{}, ErrCardNotFound
	}
	card.UserId = userId
	card.CreatedAt = existing.CreatedAt
	card.UpdatedAt = time.Now()
	s.data[card.Id] = card
	return card, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.data[id]
	if !ok || existing.UserId != userId {
		return ErrCardNotFound
	}
	if s.InUse != nil && s.InUse(id) {
		return ErrCardInUse
	}
	delete(s.data, id)
	return nil
}

func (s *RepositoryStub) Put(card Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[card.Id] = card
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
