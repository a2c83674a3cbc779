package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
)

// LeaderboardRepository computes aggregates on every call; nothing is cached.
type LeaderboardRepository interface {
	GameVoteCounts(ctx context.Context) ([]models.GameStanding, error)
	TeamTotals(ctx context.Context) ([]models.TeamStanding, error)
}

type sqlLeaderboardRepository struct {
	db *db.DB
}

func NewLeaderboardRepository(conn *db.DB) LeaderboardRepository {
	return &sqlLeaderboardRepository{db: conn}
}

func (r *sqlLeaderboardRepository) GameVoteCounts(ctx context.Context) ([]models.GameStanding, error) {
	query := `
		SELECT g.id, g.name, g.description, g.image, g.order_index,
		       (SELECT COUNT(*) FROM votes v WHERE v.game_id = g.id) AS votes_count
		FROM games g
		ORDER BY votes_count DESC, g.order_index ASC, g.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.GameStanding, 0)
	for rows.Next() {
		var s models.GameStanding
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Image, &s.OrderIndex, &s.VotesCount); err != nil {
			return nil, fmt.Errorf("failed to scan game standing: %w", err)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

// TeamTotals sums result points per team. Teams without results total 0.
func (r *sqlLeaderboardRepository) TeamTotals(ctx context.Context) ([]models.TeamStanding, error) {
	query := `
		SELECT t.id, t.name, COALESCE(SUM(r.points), 0) AS total_points
		FROM teams t
		LEFT JOIN results r ON r.team_id = t.id
		GROUP BY t.id, t.name
		ORDER BY total_points DESC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.TeamStanding, 0)
	for rows.Next() {
		var s models.TeamStanding
		if err := rows.Scan(&s.TeamID, &s.Name, &s.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan team standing: %w", err)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}
