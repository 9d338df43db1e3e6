package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository/impl"
)

type failingRepository struct {
	repository.FormSessionRepository
	err error
}

func (r *failingRepository) PurgeExpired(context.Context, time.Duration) (int, error) {
	return 0, r.err
}

func seedSessions(t *testing.T, repo repository.FormSessionRepository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, entity.NewFormSession("stale", "en", time.Now().Add(-2*time.Hour))))
	require.NoError(t, repo.Create(ctx, entity.NewFormSession("fresh", "en", time.Now())))
}

func TestNewSweeper(t *testing.T) {
	repo := impl.NewMemoryFormSessionRepository()

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"default", "", false},
		{"descriptor", "@every 30s", false},
		{"cron expression", "*/5 * * * *", false},
		{"invalid", "every now and then", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSweeper(repo, time.Hour, tt.schedule, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.schedule == "" {
				assert.Equal(t, EveryMinute, s.schedule)
			}
		})
	}
}

func TestSweeper_Sweep(t *testing.T) {
	repo := impl.NewMemoryFormSessionRepository()
	seedSessions(t, repo)

	core, logs := observer.New(zap.InfoLevel)
	s, err := NewSweeper(repo, time.Hour, EveryMinute, zap.New(core))
	require.NoError(t, err)

	purged, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = repo.Get(context.Background(), "stale")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, err = repo.Get(context.Background(), "fresh")
	assert.NoError(t, err)

	entries := logs.FilterMessage("Purged abandoned form sessions").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])

	purged, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, purged)
	assert.Equal(t, 1, logs.FilterMessage("Purged abandoned form sessions").Len())
}

func TestSweeper_SweepError(t *testing.T) {
	storeErr := errors.New("redis: connection refused")
	s, err := NewSweeper(&failingRepository{err: storeErr}, time.Hour, EveryMinute, zap.NewNop())
	require.NoError(t, err)

	_, err = s.Sweep(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestSweeper_StartStop(t *testing.T) {
	repo := impl.NewMemoryFormSessionRepository()
	seedSessions(t, repo)

	s, err := NewSweeper(repo, time.Hour, "@every 1s", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start should fail")

	deadline := time.Now().Add(5 * time.Second)
	for repo.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, 1, repo.Len(), "the scheduled sweep should purge the stale session")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.NoError(t, s.Stop(ctx), "stopping twice is a no-op")
}
