package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/neevdiamonds/storefront-backend/pkg/redis"
)

// State is the session cart as held in Redis: product id -> quantity, plus
// the premium packaging flag.
type State struct {
	Items   map[string]int `json:"items"`
	Premium bool           `json:"premium"`
}

// NewState returns an empty cart.
func NewState() *State {
	return &State{Items: map[string]int{}}
}

// IsEmpty reports whether the cart holds no lines.
func (s *State) IsEmpty() bool {
	return s == nil || len(s.Items) == 0
}

// Store keeps per-session cart state in Redis with a rolling TTL.
type Store struct {
	client *redislib.Client
	ttl    time.Duration
}

// NewStore builds a cart store. ttl bounds how long an idle cart survives.
func NewStore(client *redislib.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Store{client: client, ttl: ttl}, nil
}

// Get loads the cart for the session. A missing key is an empty cart, not
// an error; a corrupt value is discarded the same way.
func (s *Store) Get(ctx context.Context, sessionID string) (*State, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return NewState(), nil
	}
	if state.Items == nil {
		state.Items = map[string]int{}
	}
	return &state, nil
}

// Save persists the cart and refreshes its TTL. An empty cart deletes the
// key instead.
func (s *Store) Save(ctx context.Context, sessionID string, state *State) error {
	key := s.client.CartKey(sessionID)
	if state.IsEmpty() && !state.Premium {
		return s.client.Del(ctx, key)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, key, string(raw), s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Clear removes the cart for the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.CartKey(sessionID))
}
