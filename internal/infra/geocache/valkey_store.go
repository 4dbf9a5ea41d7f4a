package geocache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pawpulse/internal/domain/geo"
)

// ValkeyStore shares geocode results across instances through Valkey.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "geocode"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (geo.Point, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return geo.Point{}, false, nil
		}
		return geo.Point{}, false, err
	}
	var point geo.Point
	if err := json.Unmarshal([]byte(payload), &point); err != nil {
		return geo.Point{}, false, err
	}
	return point, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, point geo.Point, ttl time.Duration) error {
	payload, err := json.Marshal(point)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ geo.Cache = (*ValkeyStore)(nil)
