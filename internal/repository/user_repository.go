//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../mocks/mock_user_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/models"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var ErrUserNotFound = apperrors.NotFound("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
	INSERT INTO users (id, email, password_hash, display_name, avatar_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.ErrEmailTaken
		}
		return errors.Wrap(err, "userRepo.CreateUser")
	}
	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `email = $1`, email)
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, `id = $1`, id)
}

func (r *userRepository) getUser(ctx context.Context, where string, arg string) (*models.User, error) {
	query := `
	SELECT id, email, password_hash, display_name, avatar_url, created_at
	FROM users
	WHERE ` + where

	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.AvatarURL, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, classify(err, "userRepo.getUser")
	}
	return &user, nil
}
