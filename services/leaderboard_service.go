package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
	"golang.org/x/sync/errgroup"
)

type LeaderboardService interface {
	GameVoteCounts(ctx context.Context) ([]models.GameStanding, error)
	TeamLeaderboard(ctx context.Context) ([]models.TeamStanding, error)
	// Overview loads both rankings for the landing page.
	Overview(ctx context.Context) (*models.Overview, error)
}

type leaderboardService struct {
	repo repositories.LeaderboardRepository
}

func NewLeaderboardService(repo repositories.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) GameVoteCounts(ctx context.Context) ([]models.GameStanding, error) {
	games, err := s.repo.GameVoteCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes per game: %w", err)
	}
	return games, nil
}

func (s *leaderboardService) TeamLeaderboard(ctx context.Context) ([]models.TeamStanding, error) {
	teams, err := s.repo.TeamTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total team points: %w", err)
	}
	return teams, nil
}

func (s *leaderboardService) Overview(ctx context.Context) (*models.Overview, error) {
	var overview models.Overview

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, err := s.GameVoteCounts(gCtx)
		overview.Games = games
		return err
	})
	g.Go(func() error {
		teams, err := s.TeamLeaderboard(gCtx)
		overview.Leaderboard = teams
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}
