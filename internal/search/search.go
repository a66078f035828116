package search

import "context"

// MaxAnswers caps every query result set.
const MaxAnswers = 5

// Store is the lookup surface retrieval needs.
type Store interface {
	SearchChunks(ctx context.Context, question string, limit int) ([]string, error)
}

// Service answers substring queries over stored chunk text.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Query returns up to MaxAnswers chunk texts that contain question,
// case-insensitive. An empty question matches every chunk. The result is
// never nil so callers can serialize an empty answer list.
func (s *Service) Query(ctx context.Context, question string) ([]string, error) {
	answers, err := s.store.SearchChunks(ctx, question, MaxAnswers)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []string{}
	}
	return answers, nil
}
