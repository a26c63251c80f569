package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RollbackRestoresMatchDocument(t *testing.T) {
	s := NewStore()
	matches := NewMatchRepository(s)
	tx := NewTxManager(s)
	ctx := context.Background()

	m, err := matches.Create(ctx, model.Match{ID: uuid.NewString(), Status: model.StatusUpcoming, Innings: []model.Inning{model.NewInning("A", "B")}})
	require.NoError(t, err)

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := matches.Load(ctx, m.ID)
		if err != nil {
			return err
		}
		cur.Status = model.StatusLive
		cur.CurrentInning().TotalRuns = 6
		if _, err := matches.Save(ctx, cur); err != nil {
			return err
		}
		return errors.New("publish failed")
	})
	require.Error(t, err)

	got, err := matches.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUpcoming, got.Status)
	assert.Equal(t, 0, got.CurrentInning().TotalRuns)
}

func TestStore_TransactionsSerializeReadModifyWrite(t *testing.T) {
	s := NewStore()
	matches := NewMatchRepository(s)
	tx := NewTxManager(s)
	ctx := context.Background()

	m, err := matches.Create(ctx, model.Match{ID: uuid.NewString(), Innings: []model.Inning{model.NewInning("A", "B")}})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = tx.WithinTx(ctx, func(ctx context.Context) error {
				cur, err := matches.Load(ctx, m.ID)
				if err != nil {
					return err
				}
				cur.CurrentInning().TotalRuns++
				_, err = matches.Save(ctx, cur)
				return err
			})
		}()
	}
	wg.Wait()

	got, err := matches.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.CurrentInning().TotalRuns)
}

func TestStore_SaveKeepsCreatedAt(t *testing.T) {
	s := NewStore()
	clock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	matches := NewMatchRepository(s)
	ctx := context.Background()

	m, err := matches.Create(ctx, model.Match{ID: "m1"})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	m.CreatedAt = time.Time{}
	saved, err := matches.Save(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), saved.CreatedAt)
	assert.Equal(t, clock, saved.UpdatedAt)
}

func TestStore_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTeamRepository(s).Create(ctx, model.Team{ID: "t1", Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, NewPinger().Ping(ctx), context.Canceled)
}

func TestStore_ReadOutsideTxWaitsForRollback(t *testing.T) {
	s := NewStore()
	matches := NewMatchRepository(s)
	tx := NewTxManager(s)
	ctx := context.Background()

	m, err := matches.Create(ctx, model.Match{ID: uuid.NewString(), Status: model.StatusUpcoming, Innings: []model.Inning{model.NewInning("A", "B")}})
	require.NoError(t, err)

	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- tx.WithinTx(ctx, func(ctx context.Context) error {
			cur, err := matches.Load(ctx, m.ID)
			if err != nil {
				return err
			}
			cur.Status = model.StatusLive
			if _, err := matches.Save(ctx, cur); err != nil {
				return err
			}
			close(written)
			<-release
			return errors.New("rolled back")
		})
	}()
	<-written

	readDone := make(chan model.Match, 1)
	go func() {
		got, _ := matches.Load(ctx, m.ID)
		readDone <- got
	}()

	select {
	case got := <-readDone:
		t.Fatalf("read finished inside an open transaction with status %q", got.Status)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	got := <-readDone
	assert.Equal(t, model.StatusUpcoming, got.Status)
}
