package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// StoredResponse is the cached reply for a previously seen idempotency key.
// RequestHash fingerprints the original body so a reused key with a
// different payload can be rejected instead of replayed.
type StoredResponse struct {
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type,omitempty"`
	RequestHash string          `json:"request_hash,omitempty"`
}

// IdempotencyStore remembers mutation responses keyed by the caller supplied
// Idempotency-Key header so retries replay the original outcome.
type IdempotencyStore struct {
	client *Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) key(method, path, idempotencyKey string) string {
	return s.client.Key("idem", method, path, idempotencyKey)
}

// Reserve claims the key for the in-flight request. A false return means
// another request already holds it.
func (s *IdempotencyStore) Reserve(ctx context.Context, method, path, idempotencyKey string) (bool, error) {
	return s.client.SetNX(ctx, s.key(method, path, idempotencyKey), "pending", s.ttl)
}

// Release drops a reservation after the handler failed before producing a
// storable response, so the caller may retry.
func (s *IdempotencyStore) Release(ctx context.Context, method, path, idempotencyKey string) error {
	return s.client.Del(ctx, s.key(method, path, idempotencyKey))
}

func (s *IdempotencyStore) Store(ctx context.Context, method, path, idempotencyKey string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency: marshal: %w", err)
	}
	return s.client.Set(ctx, s.key(method, path, idempotencyKey), string(payload), s.ttl)
}

func (s *IdempotencyStore) Lookup(ctx context.Context, method, path, idempotencyKey string) (*StoredResponse, bool, error) {
	raw, found, err := s.client.Get(ctx, s.key(method, path, idempotencyKey))
	if err != nil || !found {
		return nil, false, err
	}
	if raw == "pending" {
		return nil, true, nil
	}
	var resp StoredResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false, fmt.Errorf("idempotency: unmarshal: %w", err)
	}
	return &resp, true, nil
}
