package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
)

type ResultInput struct {
	GameID *int
	TeamID *int
	Score  int
	Points int
}

type ResultService interface {
	CreateResult(ctx context.Context, input ResultInput) (*models.Result, error)
	GetResult(ctx context.Context, id int) (*models.Result, error)
	UpdateResult(ctx context.Context, id int, input ResultInput) (*models.Result, error)
	DeleteResult(ctx context.Context, id int) error
}

type resultService struct {
	resultRepo repositories.ResultRepository
	notifier   ChangeNotifier
}

func NewResultService(resultRepo repositories.ResultRepository, notifier ChangeNotifier) ResultService {
	return &resultService{
		resultRepo: resultRepo,
		notifier:   notifierOrNoop(notifier),
	}
}

func (s *resultService) CreateResult(ctx context.Context, input ResultInput) (*models.Result, error) {
	result, err := buildResult(0, input)
	if err != nil {
		return nil, err
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return result, nil
}

func (s *resultService) GetResult(ctx context.Context, id int) (*models.Result, error) {
	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result %d: %w", id, err)
	}
	return result, nil
}

func (s *resultService) UpdateResult(ctx context.Context, id int, input ResultInput) (*models.Result, error) {
	result, err := buildResult(id, input)
	if err != nil {
		return nil, err
	}
	if err := s.resultRepo.Update(ctx, result); err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to update result %d: %w", id, err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return result, nil
}

func (s *resultService) DeleteResult(ctx context.Context, id int) error {
	if err := s.resultRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return ErrResultNotFound
		}
		return fmt.Errorf("failed to delete result %d: %w", id, err)
	}

	s.notifier.LeaderboardChanged(ctx)
	return nil
}

func buildResult(id int, input ResultInput) (*models.Result, error) {
	if input.GameID == nil || input.TeamID == nil {
		return nil, fmt.Errorf("%w: game and team are required", ErrValidationFailed)
	}
	return &models.Result{
		ID:     id,
		GameID: input.GameID,
		TeamID: input.TeamID,
		Score:  input.Score,
		Points: input.Points,
	}, nil
}
