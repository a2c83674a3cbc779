package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
}

type sqlTeamRepository struct {
	db *db.DB
}

func NewTeamRepository(conn *db.DB) TeamRepository {
	return &sqlTeamRepository{db: conn}
}

func (r *sqlTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (name, player1_id, player2_id) VALUES (?, ?, ?)`

	id, err := r.db.InsertID(ctx, query, team.Name, team.Player1ID, team.Player2ID)
	if err != nil {
		return err
	}
	team.ID = int(id)
	return nil
}

const teamSelect = `
	SELECT t.id, t.name, t.player1_id, t.player2_id, p1.handle, p2.handle
	FROM teams t
	LEFT JOIN users p1 ON p1.id = t.player1_id
	LEFT JOIN users p2 ON p2.id = t.player2_id`

func (r *sqlTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, teamSelect+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, &db.StorageError{Op: "scan team", Err: err}
	}
	return team, nil
}

func (r *sqlTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, teamSelect+` ORDER BY t.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *sqlTeamRepository) Update(ctx context.Context, team *models.Team) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, player1_id = ?, player2_id = ? WHERE id = ?`,
		team.Name, team.Player1ID, team.Player2ID, team.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete removes the team only. Results pointing at it are kept.
func (r *sqlTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var team models.Team
	var p1Handle, p2Handle sql.NullString
	err := rowScanner.Scan(&team.ID, &team.Name, &team.Player1ID, &team.Player2ID, &p1Handle, &p2Handle)
	if err != nil {
		return nil, err
	}
	team.Player1Handle = p1Handle.String
	team.Player2Handle = p2Handle.String
	return &team, nil
}
