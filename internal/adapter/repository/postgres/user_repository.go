package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/srgjo27/boxoffice/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (id, name, email, phone)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone
	`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Phone)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}

	return nil
}

func (r *UserRepository) LoadAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, phone FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone); err != nil {
			return nil, err
		}

		users = append(users, &u)
	}

	return users, rows.Err()
}
