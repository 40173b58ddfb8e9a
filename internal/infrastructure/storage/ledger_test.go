package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(config.LedgerConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func summary(id string, initial, remaining, wave int, upgrades ...string) domain.RunSummary {
	return domain.RunSummary{
		SessionID:     id,
		Seed:          7,
		InitialAmmo:   initial,
		AmmoRemaining: remaining,
		BulletDamage:  1,
		ShotsFired:    initial,
		Misses:        initial - remaining,
		Kills:         wave * 3,
		Upgrades:      upgrades,
		Wave:          wave,
		ElapsedMs:     int64(wave) * 60000,
		Reason:        domain.EndAmmoDepleted,
	}
}

func TestLedger_RecordAndGet(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	in := summary("run-1", 10, 4, 2, "SPEED", "DAMAGE")
	require.NoError(t, l.Record(ctx, in))

	rec, err := l.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 6, rec.AmmoSpent)
	assert.Equal(t, "AMMO_DEPLETED", rec.Reason)
	assert.Equal(t, in, rec.Summary())

	_, err = l.Get(ctx, "run-404")
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.Error(t, l.Record(ctx, in), "session id is unique")
}

func TestLedger_RecentAndStats(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, summary("a", 5, 0, 1)))
	require.NoError(t, l.Record(ctx, summary("b", 8, 2, 3, "HEALTH")))
	require.NoError(t, l.Record(ctx, summary("c", 1, 1, 2)))

	recent, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].SessionID)
	assert.Equal(t, "b", recent[1].SessionID)
	assert.Equal(t, []string{}, recent[0].Summary().Upgrades)

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Runs)
	assert.Equal(t, int64(11), stats.AmmoSpent)
	assert.Equal(t, int64(18), stats.Kills)
	assert.Equal(t, int64(3), stats.BestWave)
	assert.Equal(t, int64(180000), stats.LongestRun)
}

func TestOpenLedger_UnknownDriver(t *testing.T) {
	_, err := OpenLedger(config.LedgerConfig{Driver: "mongo"})
	assert.Error(t, err)

	_, err = OpenLedger(config.LedgerConfig{Driver: "postgres"})
	assert.Error(t, err, "postgres without DSN")
}
