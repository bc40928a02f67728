package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, batch int, flush time.Duration) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history", "reports.db")
	repo, err := Open(Config{DBPath: path, BatchSize: batch, FlushInterval: flush}, zerolog.Nop())
	require.NoError(t, err)
	return repo, path
}

func TestOpen_InvalidPath(t *testing.T) {
	repo, err := Open(Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidDBPath)
	assert.Nil(t, repo)
}

func TestRepository_RecordAndRecent(t *testing.T) {
	repo, _ := openTemp(t, 2, 0)
	defer repo.Close()

	start := time.UnixMicro(1700000000123456)
	require.NoError(t, repo.Record(link.Report{Timestamp: start, Channel: ldr.LDR1, Value: 73}))
	require.NoError(t, repo.Record(link.Report{Timestamp: start.Add(time.Second), Channel: ldr.LDR2, Value: 100}))
	require.NoError(t, repo.Record(link.Report{Timestamp: start.Add(2 * time.Second), Channel: ldr.LDR1, Value: 0}))

	got, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, ldr.LDR1, got[0].Channel)
	assert.Equal(t, ldr.Fixed2(0), got[0].Value)
	assert.Equal(t, ldr.LDR2, got[1].Channel)
	assert.Equal(t, ldr.Fixed2(100), got[1].Value)
	assert.Equal(t, start.UnixMicro(), got[2].Timestamp.UnixMicro())
	assert.Equal(t, ldr.Fixed2(73), got[2].Value)

	got, err = repo.Recent(1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRepository_CloseFlushesAndReopens(t *testing.T) {
	repo, path := openTemp(t, 100, time.Hour)
	require.NoError(t, repo.Record(link.Report{Timestamp: time.Now(), Channel: ldr.LDR2, Value: 42}))
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close(), "second close is a no-op")

	assert.ErrorIs(t, repo.Record(link.Report{}), ErrClosed)
	_, err := repo.Recent(1)
	assert.ErrorIs(t, err, ErrClosed)

	reopened, err := Open(Config{DBPath: path, BatchSize: 1}, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Recent(5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ldr.Fixed2(42), got[0].Value)
}

func TestRepository_PeriodicFlush(t *testing.T) {
	repo, path := openTemp(t, 100, 10*time.Millisecond)
	defer repo.Close()

	require.NoError(t, repo.Record(link.Report{Timestamp: time.Now(), Channel: ldr.LDR1, Value: 5}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	assert.Eventually(t, func() bool {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
			return false
		}
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInitSchema_VersionMismatch(t *testing.T) {
	repo, path := openTemp(t, 1, 0)
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO schema_versions (version, applied_at) VALUES (99, 'later')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(Config{DBPath: path}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
