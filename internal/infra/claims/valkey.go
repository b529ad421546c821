package claims

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore shares claims between instances with SET NX.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "fitness:claim"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Claim sets the key only when absent.
func (s *ValkeyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.key(key)).Value(time.Now().UTC().Format(time.RFC3339)).Nx().Ex(ttl).Build()
	err := s.client.Do(ctx, cmd).Error()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Release deletes the claim.
func (s *ValkeyStore) Release(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).Error()
}

func (s *ValkeyStore) key(k string) string {
	return s.prefix + ":" + k
}
