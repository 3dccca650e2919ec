package sync

import (
	"context"
	"sync"
)

// StubRemoteStore is an in-memory RemoteStore used by tests. Push simulates
// an update arriving from another device.
type StubRemoteStore struct {
	mu          sync.Mutex
	docs        map[string]Document
	subscribers map[string][]func(Document)
	LoadErr     error
	SaveErr     error
	SaveCalls   int
}

func NewStubRemoteStore() *StubRemoteStore {
	return &StubRemoteStore{
		docs:        map[string]Document{},
		subscribers: map[string][]func(Document){},
	}
}

func (s *StubRemoteStore) Load(ctx context.Context, userID string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	doc, ok := s.docs[userID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (s *StubRemoteStore) Save(ctx context.Context, userID string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SaveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.docs[userID] = doc
	return nil
}

func (s *StubRemoteStore) Subscribe(ctx context.Context, userID string, fn func(Document)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers[userID] = append(s.subscribers[userID], fn)
	return func() {}, nil
}

// Push delivers doc to every subscriber of userID.
func (s *StubRemoteStore) Push(userID string, doc Document) {
	s.mu.Lock()
	subscribers := append([]func(Document){}, s.subscribers[userID]...)
	s.docs[userID] = doc
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(doc)
	}
}

func (s *StubRemoteStore) Stored(userID string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	return doc, ok
}
