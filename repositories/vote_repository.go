package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/db"
)

var ErrVoteExists = errors.New("vote already exists for this user and game")

type VoteRepository interface {
	// Delete removes the (user, game) vote and reports whether one existed.
	Delete(ctx context.Context, userID, gameID int) (bool, error)
	// InsertUnderCap adds a vote only while the user holds fewer than limit
	// votes. It reports false when the cap is reached and ErrVoteExists when
	// the pair is already present.
	InsertUnderCap(ctx context.Context, userID, gameID, limit int) (bool, error)
	ListGameIDsByUser(ctx context.Context, userID int) ([]int, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	DeleteByGame(ctx context.Context, exec db.Executor, gameID int) (int64, error)
}

type sqlVoteRepository struct {
	db *db.DB
}

func NewVoteRepository(conn *db.DB) VoteRepository {
	return &sqlVoteRepository{db: conn}
}

func (r *sqlVoteRepository) Delete(ctx context.Context, userID, gameID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE user_id = ? AND game_id = ?`, userID, gameID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *sqlVoteRepository) InsertUnderCap(ctx context.Context, userID, gameID, limit int) (bool, error) {
	// Count and insert happen in one statement so the cap cannot be
	// overshot by interleaved requests on SQLite.
	query := `
		INSERT INTO votes (user_id, game_id)
		SELECT CAST(? AS INTEGER), CAST(? AS INTEGER)
		WHERE (SELECT COUNT(*) FROM votes WHERE user_id = ?) < ?`

	result, err := r.db.ExecContext(ctx, query, userID, gameID, userID, limit)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return false, ErrVoteExists
		}
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n == 1, nil
}

func (r *sqlVoteRepository) ListGameIDsByUser(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT game_id FROM votes WHERE user_id = ? ORDER BY game_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sqlVoteRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, &db.StorageError{Op: "count votes", Err: err}
	}
	return n, nil
}

func (r *sqlVoteRepository) DeleteByGame(ctx context.Context, exec db.Executor, gameID int) (int64, error) {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM votes WHERE game_id = ?`, gameID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
