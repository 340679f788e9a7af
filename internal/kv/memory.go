package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Contexts created with Peer share the same
// data and observe each other's writes as remote changes, the way browser
// tabs of one origin do.
type Memory struct {
	shared *memoryShared
	hub    hub
}

type memoryShared struct {
	mu    sync.Mutex
	data  map[string]string
	peers []*Memory
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store with a single context.
func NewMemory() *Memory {
	shared := &memoryShared{data: make(map[string]string)}
	m := &Memory{shared: shared}
	shared.peers = append(shared.peers, m)
	return m
}

// Peer returns another context attached to the same data.
func (m *Memory) Peer() *Memory {
	p := &Memory{shared: m.shared}
	m.shared.mu.Lock()
	m.shared.peers = append(m.shared.peers, p)
	m.shared.mu.Unlock()
	return p
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	v, ok := m.shared.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.write(Change{Key: key, Value: value})
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.write(Change{Key: key, Deleted: true})
	return nil
}

func (m *Memory) write(c Change) {
	m.shared.mu.Lock()
	if c.Deleted {
		delete(m.shared.data, c.Key)
	} else {
		m.shared.data[c.Key] = c.Value
	}
	peers := make([]*Memory, 0, len(m.shared.peers))
	for _, p := range m.shared.peers {
		if p != m {
			peers = append(peers, p)
		}
	}
	m.shared.mu.Unlock()

	m.hub.publish(c)
	remote := c
	remote.Remote = true
	for _, p := range peers {
		p.hub.publish(remote)
	}
}

// Subscribe implements Store.
func (m *Memory) Subscribe(key string, fn func(Change)) func() {
	return m.hub.subscribe(key, fn)
}

// Close detaches this context from the shared data.
func (m *Memory) Close() error {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	for i, p := range m.shared.peers {
		if p == m {
			m.shared.peers = append(m.shared.peers[:i], m.shared.peers[i+1:]...)
			break
		}
	}
	return nil
}
