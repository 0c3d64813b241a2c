package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/stackseed/internal/config"
	"github.com/hetulpatel/stackseed/internal/models"
	"github.com/hetulpatel/stackseed/internal/seed"
)

func TestOpen_NoSinks(t *testing.T) {
	env := Open(context.Background(), "test", &config.Config{})
	defer env.Close()

	assert.Nil(t, env.Ledger)
	assert.Nil(t, env.Stats)
	assert.Empty(t, env.Recorders())

	// Without a ledger Finish is a no-op.
	env.Finish(context.Background(), seed.Stats{RunID: "r"}, "users.csv", nil)
}

func TestOpen_LedgerAndStats(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Ledger: config.LedgerConfig{Path: filepath.Join(t.TempDir(), "seed.db")},
		Redis:  config.RedisConfig{Addr: mr.Addr(), Prefix: "seed"},
	}
	env := Open(context.Background(), "test", cfg)
	defer env.Close()

	require.NotNil(t, env.Ledger)
	require.NotNil(t, env.Stats)
	require.Len(t, env.Recorders(), 2)

	sub := models.Submission{RunID: "run-1", Kind: models.KindUser, Line: 1, Endpoint: "/adduser", PayloadHash: "h", StatusCode: 200}
	for _, r := range env.Options(0).Recorders {
		require.NoError(t, r.Record(context.Background(), sub))
	}

	subs, err := env.Ledger.Submissions(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	counts, err := env.Stats.Counts(context.Background(), models.KindUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Sent)
}

func TestFinish_SavesRunEvenWhenCanceled(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Path: filepath.Join(t.TempDir(), "seed.db")}}
	env := Open(context.Background(), "test", cfg)
	defer env.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := seed.Stats{
		RunID:      "run-9",
		Kind:       models.KindQuestion,
		Sent:       4,
		Failed:     1,
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	}
	env.Finish(ctx, stats, "data.json", errors.New("line 5: boom"))

	runs, err := env.Ledger.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-9", runs[0].RunID)
	assert.Equal(t, "data.json", runs[0].Source)
	assert.Equal(t, 4, runs[0].Sent)
	assert.Equal(t, 1, runs[0].Rejected)
	assert.Equal(t, "line 5: boom", runs[0].Error)
}

func TestOpenLedger_RequiresPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := OpenLedger(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_LEDGER_PATH")
	assert.NoDirExists(t, filepath.Join(dir, "data"))

	store, err := OpenLedger(&config.Config{Ledger: config.LedgerConfig{Path: filepath.Join(dir, "seed.db")}})
	require.NoError(t, err)
	defer store.Close()
	assert.FileExists(t, store.Path())
}

func TestOpen_UnreachableRedisIsSkipped(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	env := Open(context.Background(), "test", &config.Config{Redis: config.RedisConfig{Addr: addr, Prefix: "seed"}})
	defer env.Close()

	assert.Nil(t, env.Stats)
	assert.Empty(t, env.Recorders())
	assert.Less(t, time.Since(start), 5*time.Second)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
