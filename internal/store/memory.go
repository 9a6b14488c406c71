package store

import (
	"context"
	"sync"

	"referral-radar/internal/domain/connection"
)

// Memory is an in-process Store. It backs tests and DB-less local runs.
type Memory struct {
	mu sync.RWMutex

	conns []connection.Connection
	meta  *connection.ImportMetadata
	csv   string
	hasCSV bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetConnections(ctx context.Context) ([]connection.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]connection.Connection, len(m.conns))
	copy(out, m.conns)
	return out, nil
}

func (m *Memory) SaveConnections(ctx context.Context, conns []connection.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conns = make([]connection.Connection, len(conns))
	copy(m.conns, conns)
	return nil
}

func (m *Memory) HasConnections(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns) > 0, nil
}

func (m *Memory) GetMetadata(ctx context.Context) (*connection.ImportMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.meta == nil {
		return nil, nil
	}
	meta := *m.meta
	return &meta, nil
}

func (m *Memory) SaveMetadata(ctx context.Context, meta connection.ImportMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta = &meta
	return nil
}

func (m *Memory) CacheCSV(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csv = text
	m.hasCSV = true
	return nil
}

func (m *Memory) GetCachedCSV(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.hasCSV {
		return "", ErrNoCachedCSV
	}
	return m.csv, nil
}

func (m *Memory) HasCachedCSV(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasCSV, nil
}

func (m *Memory) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conns = nil
	m.meta = nil
	m.csv = ""
	m.hasCSV = false
	return nil
}

var _ Store = (*Memory)(nil)
