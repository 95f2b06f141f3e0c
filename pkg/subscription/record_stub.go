package subscription

import (
	"context"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu   sync.Mutex
	data map[int]Record
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]Record{}}
}

func (s *RepositoryStub) Upsert(ctx context.Context, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.UpdatedAt = time.Now()
	s.data[record.UserId] = record
	return record, nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.data[userId]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}
