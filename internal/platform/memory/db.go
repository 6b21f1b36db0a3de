package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// DB holds the book, user and loan collections of one process.
// Contents are lost when the process exits.
//
// All collections share one lock so that a unit of work started with
// WithinTx sees and mutates them consistently.
type DB struct {
	mu sync.RWMutex

	books []*domain.Book
	users []*domain.User
	loans []*domain.Loan

	bookSeq store.Sequence
	userSeq store.Sequence
	loanSeq store.Sequence

	logger *slog.Logger
}

// NewDB creates an empty in-memory database with one sequence per entity type.
// If logger is nil, a default logger will be used.
func NewDB(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}

	return &DB{
		bookSeq: NewSequence(),
		userSeq: NewSequence(),
		loanSeq: NewSequence(),
		logger:  logger.With(slog.String("component", "memory_db")),
	}
}

// Ensure DB implements store.Transactor interface
var _ store.Transactor = (*DB)(nil)

// Stores returns stores that lock per call. Use them outside WithinTx.
func (db *DB) Stores() store.Stores {
	return store.Stores{
		Books: &BookStore{db: db},
		Users: &UserStore{db: db},
		Loans: &LoanStore{db: db},
	}
}

// WithinTx runs fn while holding the write lock. The stores passed to fn do
// not lock again and record undo steps; if fn returns an error or panics the
// steps are replayed in reverse so no partial change survives.
func (db *DB) WithinTx(ctx context.Context, fn store.TxFunc) (err error) {
	log := logger.FromContextOrDefault(ctx, db.logger)

	db.mu.Lock()
	defer db.mu.Unlock()

	undo := &undoLog{}
	stores := store.Stores{
		Books: &BookStore{db: db, inTx: true, undo: undo},
		Users: &UserStore{db: db, inTx: true, undo: undo},
		Loans: &LoanStore{db: db, inTx: true, undo: undo},
	}

	defer func() {
		if p := recover(); p != nil {
			undo.rollback()
			log.Error("rolled back in-memory unit of work after panic", slog.Any("panic", p))
			// ALLOW-PANIC: Propagating caught panic from unit of work
			panic(p)
		}
	}()

	if err = fn(ctx, stores); err != nil {
		steps := undo.rollback()
		log.Debug("rolled back in-memory unit of work",
			slog.String("error", err.Error()),
			slog.Int("undo_steps", steps))
		return err
	}

	return nil
}

// undoLog collects compensating actions for a unit of work.
type undoLog struct {
	steps []func()
}

func (u *undoLog) record(step func()) {
	if u != nil {
		u.steps = append(u.steps, step)
	}
}

// rollback runs the recorded steps newest first and returns how many ran.
func (u *undoLog) rollback() int {
	n := len(u.steps)
	for i := n - 1; i >= 0; i-- {
		u.steps[i]()
	}
	u.steps = nil
	return n
}

// rlock and runlock guard reads for stores used outside a unit of work.
func (db *DB) rlock(inTx bool) {
	if !inTx {
		db.mu.RLock()
	}
}

func (db *DB) runlock(inTx bool) {
	if !inTx {
		db.mu.RUnlock()
	}
}

func (db *DB) lock(inTx bool) {
	if !inTx {
		db.mu.Lock()
	}
}

func (db *DB) unlock(inTx bool) {
	if !inTx {
		db.mu.Unlock()
	}
}
