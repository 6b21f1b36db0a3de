package memory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// UserStore implements store.UserStore on top of a DB.
type UserStore struct {
	db   *DB
	inTx bool
	undo *undoLog
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.db.logger)

	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	for _, existing := range s.db.users {
		if strings.EqualFold(existing.Email, user.Email) {
			log.Debug("duplicate user email", slog.Int64("existing_user_id", existing.ID))
			return store.ErrEmailExists
		}
	}

	user.ID = s.db.userSeq.Next()
	stored := *user
	s.db.users = append(s.db.users, &stored)
	s.undo.record(func() { s.remove(stored.ID) })

	log.Debug("user stored", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	for _, user := range s.db.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	users := make([]*domain.User, 0, len(s.db.users))
	for _, user := range s.db.users {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}

func (s *UserStore) remove(id int64) {
	for i, user := range s.db.users {
		if user.ID == id {
			s.db.users = append(s.db.users[:i], s.db.users[i+1:]...)
			return
		}
	}
}
