package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	// Update overwrites name, description and order index. The image column
	// is only touched when replaceImage is true.
	Update(ctx context.Context, game *models.Game, replaceImage bool) error
	Delete(ctx context.Context, exec db.Executor, id int) error
}

type sqlGameRepository struct {
	db *db.DB
}

func NewGameRepository(conn *db.DB) GameRepository {
	return &sqlGameRepository{db: conn}
}

func (r *sqlGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `INSERT INTO games (name, description, image, order_index) VALUES (?, ?, ?, ?)`

	id, err := r.db.InsertID(ctx, query, game.Name, game.Description, game.Image, game.OrderIndex)
	if err != nil {
		return err
	}
	game.ID = int(id)
	return nil
}

func (r *sqlGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT id, name, description, image, order_index FROM games WHERE id = ?`

	var game models.Game
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID, &game.Name, &game.Description, &game.Image, &game.OrderIndex,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, &db.StorageError{Op: "scan game", Err: err}
	}
	return &game, nil
}

// List returns games in display order.
func (r *sqlGameRepository) List(ctx context.Context) ([]models.Game, error) {
	query := `SELECT id, name, description, image, order_index FROM games ORDER BY order_index ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(&game.ID, &game.Name, &game.Description, &game.Image, &game.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *sqlGameRepository) Update(ctx context.Context, game *models.Game, replaceImage bool) error {
	var (
		result sql.Result
		err    error
	)
	if replaceImage {
		result, err = r.db.ExecContext(ctx,
			`UPDATE games SET name = ?, description = ?, order_index = ?, image = ? WHERE id = ?`,
			game.Name, game.Description, game.OrderIndex, game.Image, game.ID,
		)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE games SET name = ?, description = ?, order_index = ? WHERE id = ?`,
			game.Name, game.Description, game.OrderIndex, game.ID,
		)
	}
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *sqlGameRepository) Delete(ctx context.Context, exec db.Executor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
