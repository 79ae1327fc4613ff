package referer

import (
	"context"
	"fmt"
	"sync"
)

type FakeStore struct {
	Values      map[string]string
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Values: make(map[string]string)}
}

func (s *FakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.ReturnError {
		return "", false, fmt.Errorf("could not get value for key %s", key)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	value, ok := s.Values[key]
	return value, ok, nil
}

func (s *FakeStore) Set(ctx context.Context, key string, value string) error {
	if s.ReturnError {
		return fmt.Errorf("could not set value for key %s", key)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Values[key] = value
	return nil
}

func (s *FakeStore) Remove(ctx context.Context, key string) (string, bool, error) {
	if s.ReturnError {
		return "", false, fmt.Errorf("could not remove value for key %s", key)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	value, ok := s.Values[key]
	delete(s.Values, key)
	return value, ok, nil
}
