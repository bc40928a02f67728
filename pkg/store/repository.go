package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const defaultDirPerm = 0o755

// Config contains repository parameters.
type Config struct {
	DBPath        string
	BatchSize     int
	FlushInterval time.Duration
}

// Repository keeps the host-side history of received reports.
type Repository struct {
	db     *sql.DB
	log    zerolog.Logger
	cfg    Config
	mu     sync.Mutex
	buffer []link.Report
	closed bool

	flushTicker   *time.Ticker
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
}

// Open opens or creates the database at cfg.DBPath.
func Open(cfg Config, log zerolog.Logger) (*Repository, error) {
	if cfg.DBPath == "" {
		return nil, ErrInvalidDBPath
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db, log); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Dur("flush_interval", cfg.FlushInterval).
		Msg("Report store initialized")

	r := &Repository{
		db:            db,
		log:           log,
		cfg:           cfg,
		buffer:        make([]link.Report, 0, cfg.BatchSize),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}

	if cfg.FlushInterval > 0 {
		r.flushTicker = time.NewTicker(cfg.FlushInterval)
		go r.flusher()
	} else {
		close(r.flushDoneChan)
	}

	return r, nil
}

// Record buffers a report and writes the buffer once it reaches the batch size.
func (r *Repository) Record(report link.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.buffer = append(r.buffer, report)

	if len(r.buffer) >= r.cfg.BatchSize {
		return r.flush()
	}

	return nil
}

// Recent returns up to n stored reports, newest first. Buffered reports are
// written first.
func (r *Repository) Recent(n int) ([]link.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if err := r.flush(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(recentReportsSQL, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	result := make([]link.Report, 0, n)
	for rows.Next() {
		var ts int64
		var ch, v uint32
		if err := rows.Scan(&ts, &ch, &v); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		result = append(result, link.Report{
			Timestamp: time.UnixMicro(ts),
			Channel:   ldr.Channel(ch),
			Value:     ldr.Fixed2(v),
		})
	}

	return result, rows.Err()
}

// Close flushes pending reports and closes the database.
func (r *Repository) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.shutdownChan)
	if r.flushTicker != nil {
		r.flushTicker.Stop()
	}
	<-r.flushDoneChan

	r.mu.Lock()
	flushErr := r.flush()
	r.mu.Unlock()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.log.Warn().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	r.log.Info().Msg("Report store closed")

	return flushErr
}

func (r *Repository) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushTicker.C:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				r.log.Error().Err(err).Msg("Periodic flush failed")
			}
			r.mu.Unlock()
		case <-r.shutdownChan:
			return
		}
	}
}

// flush writes the buffer in one transaction. Caller holds r.mu.
func (r *Repository) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	stmt, err := tx.Prepare(insertReportSQL)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	defer stmt.Close()

	for _, report := range r.buffer {
		if _, err := stmt.Exec(report.Timestamp.UnixMicro(), int64(report.Channel), int64(report.Value)); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error().Err(rbErr).Msg("Failed to roll back transaction")
			}
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	r.log.Debug().Int("records", len(r.buffer)).Msg("Flushed reports to database")
	r.buffer = r.buffer[:0]

	return nil
}
