package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
)

// TeamInput player ids are not checked against users; a team may point at
// a player that does not exist.
type TeamInput struct {
	Name      string
	Player1ID *int
	Player2ID *int
}

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	notifier ChangeNotifier
}

func NewTeamService(teamRepo repositories.TeamRepository, notifier ChangeNotifier) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	team, err := buildTeam(0, input)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	team, err := buildTeam(id, input)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return nil
}

func buildTeam(id int, input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	return &models.Team{
		ID:        id,
		Name:      name,
		Player1ID: input.Player1ID,
		Player2ID: input.Player2ID,
	}, nil
}
