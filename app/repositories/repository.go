package repositories

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// OpenBadger opens the badger database at path, or an in-memory one when inMemory is set.
func OpenBadger(path string, inMemory bool, logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.
		WithLogger(badgerLogger{logger: logger.With("component", "badger")}).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerStore wires the badger repositories onto db. Closing the store closes db.
func NewBadgerStore(db *badger.DB) *Store {
	return NewStore(
		NewBadgerUserRepository(db),
		NewBadgerPostRepository(db),
		NewBadgerCommentRepository(db),
		db.Close,
	)
}

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(trimLine(format, args))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(trimLine(format, args))
}

// Infof is logged at debug; badger reports compactions and replays at info.
func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(trimLine(format, args))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(trimLine(format, args))
}

func trimLine(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
