package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserHandleConflict = errors.New("user handle conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type sqlUserRepository struct {
	db *db.DB
}

func NewUserRepository(conn *db.DB) UserRepository {
	return &sqlUserRepository{db: conn}
}

func (r *sqlUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (handle, email, password_hash, is_admin) VALUES (?, ?, ?, ?)`

	id, err := r.db.InsertID(ctx, query, user.Handle, user.Email, user.PasswordHash, user.IsAdmin)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUserHandleConflict
		}
		return err
	}
	user.ID = int(id)
	return nil
}

func (r *sqlUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, handle, email, password_hash, is_admin FROM users WHERE id = ?`
	return r.scanUser(ctx, query, id)
}

func (r *sqlUserRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	query := `SELECT id, handle, email, password_hash, is_admin FROM users WHERE handle = ?`
	return r.scanUser(ctx, query, handle)
}

// List returns all users ordered by handle, without password hashes.
func (r *sqlUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, handle, email, is_admin FROM users ORDER BY handle ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Handle, &user.Email, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqlUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Handle,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, &db.StorageError{Op: "scan user", Err: err}
	}
	return user, nil
}
