package user

import (
	"context"
	"time"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
	Now    func() time.Time
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}, Now: time.Now}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (User, error) {
	s.nextId++
	user.Id = s.nextId
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.Now()
	}
	s.data[user.Id] = user
	return user, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	for _, user := range s.data {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}
