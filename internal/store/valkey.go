package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valkey-io/valkey-go"

	"github.com/robalobadob/duotrigordle/internal/serial"
)

const saveKeyPrefix = "duo:save:"

// ValkeySaveStore keeps saves in valkey with a sliding TTL. Stored payloads are
// re-checked with serial.ParseGame on read, so a corrupted value reads as missing.
type ValkeySaveStore struct {
	client valkey.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// ValkeyOptions configures NewValkeySaveStore.
type ValkeyOptions struct {
	URL string
	TTL time.Duration
	// DisableCache turns off client-side caching; miniredis requires it.
	DisableCache bool
}

// NewValkeySaveStore connects to the server at opts.URL (redis:// or valkey:// form).
func NewValkeySaveStore(opts ValkeyOptions, log zerolog.Logger) (*ValkeySaveStore, error) {
	co, err := valkey.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse valkey url: %w", err)
	}
	co.DisableCache = opts.DisableCache
	client, err := valkey.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}
	return &ValkeySaveStore{
		client: client,
		ttl:    opts.TTL,
		log:    log.With().Str("component", "valkey_saves").Logger(),
	}, nil
}

// Close releases the connection pool.
func (s *ValkeySaveStore) Close() {
	s.client.Close()
}

func (s *ValkeySaveStore) key(k SaveKey) string {
	return saveKeyPrefix + k.String()
}

func (s *ValkeySaveStore) Put(ctx context.Context, k SaveKey, g serial.GameSerialized) error {
	if err := k.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	var cmd valkey.Completed
	if s.ttl > 0 {
		cmd = s.client.B().Set().Key(s.key(k)).Value(string(data)).Ex(s.ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(s.key(k)).Value(string(data)).Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("put save: %w", err)
	}
	return nil
}

func (s *ValkeySaveStore) Get(ctx context.Context, k SaveKey) (*serial.GameSerialized, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(k)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get save: %w", err)
	}
	g := serial.ParseGame([]byte(raw))
	if g == nil {
		s.log.Warn().Str("key", s.key(k)).Msg("discarding malformed save")
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *ValkeySaveStore) Delete(ctx context.Context, k SaveKey) error {
	err := s.client.Do(ctx, s.client.B().Del().Key(s.key(k)).Build()).Error()
	if err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}
