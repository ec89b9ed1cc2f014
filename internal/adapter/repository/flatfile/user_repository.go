package flatfile

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/srgjo27/boxoffice/internal/core/domain"
	"github.com/srgjo27/boxoffice/internal/platform/recordstore"
)

const userFieldCount = 4

type UserRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

func NewUserRepository(dir string, logger *zap.Logger) *UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserRepository{
		store:  recordstore.New(filepath.Join(dir, UsersFile)),
		logger: logger,
	}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return r.store.Upsert(
		formatInt(user.ID),
		user.Name,
		user.Email,
		user.Phone,
	)
}

func (r *UserRepository) LoadAll(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	err := r.store.Scan(func(pos int, fields []string) {
		u, err := decodeUser(fields)
		if err != nil {
			logSkipped(r.logger, r.store.Path(), pos, err)
			return
		}
		users = append(users, u)
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func decodeUser(fields []string) (*domain.User, error) {
	r := newFieldReader(fields, userFieldCount)

	u := &domain.User{}
	u.ID = r.integer()
	u.Name = r.text()
	u.Email = r.text()
	u.Phone = r.text()

	if r.err != nil {
		return nil, r.err
	}

	return u, nil
}
