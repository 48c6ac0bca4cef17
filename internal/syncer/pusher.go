// internal/syncer/pusher.go
//
// Client side of the remote stats sync.
//   - Push splits a history into batches and POSTs each to /sync/stats.
//   - Pull fetches the server's normalized history from /sync/stats.
//
// The server upserts by (game mode, challenge, id), so a failed Push can simply be
// retried with the same history.
package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/duotrigordle/internal/serial"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

const (
	DefaultBatchSize   = 50
	DefaultParallelism = 4
)

// Pusher talks to one sync backend on behalf of one authenticated player.
type Pusher struct {
	baseURL   string
	token     string
	client    *http.Client
	batchSize int
	parallel  int
	log       zerolog.Logger
}

type Option func(*Pusher)

func WithHTTPClient(c *http.Client) Option { return func(p *Pusher) { p.client = c } }

// WithBatchSize caps the entries sent per request; it should not exceed the
// server's SYNC_BATCH_SIZE.
func WithBatchSize(n int) Option {
	return func(p *Pusher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithParallelism bounds the number of requests in flight.
func WithParallelism(n int) Option {
	return func(p *Pusher) {
		if n > 0 {
			p.parallel = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(p *Pusher) { p.log = l } }

func New(baseURL, token string, opts ...Option) *Pusher {
	p := &Pusher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		client:    &http.Client{Timeout: 10 * time.Second},
		batchSize: DefaultBatchSize,
		parallel:  DefaultParallelism,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type pushResponse struct {
	Upserted int `json:"upserted"`
}

// Push normalizes history and uploads it. It returns the number of entries the
// server acknowledged; on error some batches may already have been stored.
func (p *Pusher) Push(ctx context.Context, history []stats.Entry) (int, error) {
	batches := Batches(stats.Normalize(history), p.batchSize)
	if len(batches) == 0 {
		return 0, nil
	}

	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)
	for i, batch := range batches {
		g.Go(func() error {
			n, err := p.pushBatch(ctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			total.Add(int64(n))
			return nil
		})
	}
	err := g.Wait()
	p.log.Debug().Int("batches", len(batches)).Int64("upserted", total.Load()).Err(err).Msg("history push")
	return int(total.Load()), err
}

func (p *Pusher) pushBatch(ctx context.Context, batch []stats.Entry) (int, error) {
	body, err := json.Marshal(serial.StatsSerialized{History: batch})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/sync/stats", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	data, err := p.do(req)
	if err != nil {
		return 0, err
	}
	var res pushResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return 0, fmt.Errorf("decode push response: %w", err)
	}
	return res.Upserted, nil
}

// Pull downloads the stored history. Malformed entries in the response are dropped.
func (p *Pusher) Pull(ctx context.Context) ([]stats.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/sync/stats", nil)
	if err != nil {
		return nil, err
	}
	data, err := p.do(req)
	if err != nil {
		return nil, err
	}
	s := serial.ParseStats(data)
	if s == nil {
		return nil, fmt.Errorf("pull: malformed stats payload")
	}
	return stats.Normalize(s.History), nil
}

func (p *Pusher) do(req *http.Request) ([]byte, error) {
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sync: http %d: %s", e.Code, e.Body)
}

// Batches splits entries into consecutive chunks of at most size entries.
func Batches(entries []stats.Entry, size int) [][]stats.Entry {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]stats.Entry
	for len(entries) > 0 {
		n := min(size, len(entries))
		out = append(out, entries[:n:n])
		entries = entries[n:]
	}
	return out
}
