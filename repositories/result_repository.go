package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
)

var ErrResultNotFound = errors.New("result not found")

type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, id int) (*models.Result, error)
	// ListDetailed returns every result, newest first, with game and team
	// names joined in. Orphaned rows are included with empty names.
	ListDetailed(ctx context.Context) ([]models.Result, error)
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id int) error
}

type sqlResultRepository struct {
	db *db.DB
}

func NewResultRepository(conn *db.DB) ResultRepository {
	return &sqlResultRepository{db: conn}
}

func (r *sqlResultRepository) Create(ctx context.Context, result *models.Result) error {
	query := `INSERT INTO results (game_id, team_id, score, points) VALUES (?, ?, ?, ?)`

	id, err := r.db.InsertID(ctx, query, result.GameID, result.TeamID, result.Score, result.Points)
	if err != nil {
		return err
	}
	result.ID = int(id)
	return nil
}

func (r *sqlResultRepository) GetByID(ctx context.Context, id int) (*models.Result, error) {
	query := `SELECT id, game_id, team_id, score, points FROM results WHERE id = ?`

	var res models.Result
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.GameID, &res.TeamID, &res.Score, &res.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, &db.StorageError{Op: "scan result", Err: err}
	}
	return &res, nil
}

func (r *sqlResultRepository) ListDetailed(ctx context.Context) ([]models.Result, error) {
	query := `
		SELECT r.id, r.game_id, r.team_id, r.score, r.points, g.name, t.name
		FROM results r
		LEFT JOIN games g ON g.id = r.game_id
		LEFT JOIN teams t ON t.id = r.team_id
		ORDER BY r.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.Result, 0)
	for rows.Next() {
		var res models.Result
		var gameName, teamName sql.NullString
		if err := rows.Scan(&res.ID, &res.GameID, &res.TeamID, &res.Score, &res.Points, &gameName, &teamName); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.GameName = gameName.String
		res.TeamName = teamName.String
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sqlResultRepository) Update(ctx context.Context, result *models.Result) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE results SET game_id = ?, team_id = ?, score = ?, points = ? WHERE id = ?`,
		result.GameID, result.TeamID, result.Score, result.Points, result.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrResultNotFound)
}

func (r *sqlResultRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrResultNotFound)
}
