package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/cache"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]string{}}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.entries[key] = string(v)
	case string:
		c.entries[key] = v
	}
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *mapCache) Close() error { return nil }

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type fakeGateway struct {
	amounts []int64
	err     error
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.amounts = append(g.amounts, amount)
	return "pi_secret_" + currency, nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, models.Event) error {
	return errors.New("broker down")
}

// unreachableSelections fails every lookup the way a dropped connection does.
type unreachableSelections struct {
	db.SelectionRepository
}

func (unreachableSelections) Exists(context.Context, string, string) (bool, error) {
	return false, errors.New("connection refused")
}

func (unreachableSelections) ListByEmail(context.Context, string) ([]*models.Selection, error) {
	return nil, errors.New("connection refused")
}
