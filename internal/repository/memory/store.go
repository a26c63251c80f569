// Package memory is an in-process implementation of the repository contracts.
// It backs local runs and the service tests; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

// Store holds every table. Values are cloned on the way in and out so callers
// never share slices or maps with the store.
type Store struct {
	// txMu serializes transactions and every access made outside of one, so
	// readers never observe writes a transaction may still roll back.
	txMu sync.Mutex
	mu   sync.RWMutex

	teams   table[model.Team]
	players table[model.Player]
	matches table[model.Match]

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		teams:   newTable[model.Team](),
		players: newTable[model.Player](),
		matches: newTable[model.Match](),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// table keeps rows by id plus their insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: map[string]T{}}
}

func (t table[T]) clone(cp func(T) T) table[T] {
	out := table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for k, v := range t.rows {
		out.rows[k] = cp(v)
	}
	return out
}

func (t *table[T]) insert(id string, v T) {
	t.rows[id] = v
	t.order = append(t.order, id)
}

// all returns rows in insertion order.
func (t table[T]) all(cp func(T) T) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, cp(t.rows[id]))
	}
	return out
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// write runs fn under the data lock, queueing behind any open transaction
// unless ctx already belongs to one.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// read runs fn under the shared data lock. Outside a transaction it first
// waits for any open one to commit or roll back.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

type snapshot struct {
	teams   table[model.Team]
	players table[model.Player]
	matches table[model.Match]
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		teams:   s.teams.clone(cloneTeam),
		players: s.players.clone(clonePlayer),
		matches: s.matches.clone(cloneMatch),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams, s.players, s.matches = snap.teams, snap.players, snap.matches
}

type txManager struct{ s *Store }

// NewTxManager returns a TxManager that rolls the whole store back when fn fails.
func NewTxManager(s *Store) repository.TxManager { return &txManager{s: s} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

type pinger struct{}

// NewPinger reports ready as long as the caller's context is alive.
func NewPinger() repository.Pinger { return pinger{} }

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

func cloneTeam(t model.Team) model.Team {
	t.Players = append([]string{}, t.Players...)
	return t
}

func clonePlayer(p model.Player) model.Player { return p }

func cloneMatch(m model.Match) model.Match { return m.Clone() }

var (
	_ repository.TxManager = (*txManager)(nil)
	_ repository.Pinger    = pinger{}
)
