package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
)

// MaxVotesPerUser is the number of games a user may vote for at once.
const MaxVotesPerUser = 8

type VoteOutcome string

const (
	VoteAdded   VoteOutcome = "added"
	VoteRemoved VoteOutcome = "removed"
	// VoteCapped means nothing changed because the user already holds
	// MaxVotesPerUser votes.
	VoteCapped VoteOutcome = "capped"
	// VoteAlreadyCast means a concurrent request inserted the same vote first.
	VoteAlreadyCast VoteOutcome = "already_voted"
)

// Changed reports whether the toggle modified stored votes.
func (o VoteOutcome) Changed() bool {
	return o == VoteAdded || o == VoteRemoved
}

type VoteService interface {
	State(ctx context.Context, userID int) (*models.VoteState, error)
	Count(ctx context.Context, userID int) (int, error)
	Toggle(ctx context.Context, identity *models.Identity, gameID int) (VoteOutcome, error)
}

type voteService struct {
	voteRepo repositories.VoteRepository
	gameRepo repositories.GameRepository
	notifier ChangeNotifier
}

func NewVoteService(voteRepo repositories.VoteRepository, gameRepo repositories.GameRepository, notifier ChangeNotifier) VoteService {
	return &voteService{
		voteRepo: voteRepo,
		gameRepo: gameRepo,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *voteService) State(ctx context.Context, userID int) (*models.VoteState, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	gameIDs, err := s.voteRepo.ListGameIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes of user %d: %w", userID, err)
	}

	return &models.VoteState{
		Games:      games,
		UserVotes:  gameIDs,
		VotesCount: len(gameIDs),
		MaxVotes:   MaxVotesPerUser,
	}, nil
}

func (s *voteService) Count(ctx context.Context, userID int) (int, error) {
	n, err := s.voteRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes of user %d: %w", userID, err)
	}
	return n, nil
}

// Toggle removes the caller's vote for gameID if present, otherwise adds it
// while the caller is under the cap.
func (s *voteService) Toggle(ctx context.Context, identity *models.Identity, gameID int) (VoteOutcome, error) {
	if identity == nil {
		return "", ErrUnauthorized
	}

	removed, err := s.voteRepo.Delete(ctx, identity.UserID, gameID)
	if err != nil {
		return "", fmt.Errorf("failed to remove vote: %w", err)
	}
	if removed {
		s.notifier.VotesChanged(ctx)
		return VoteRemoved, nil
	}

	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return "", ErrGameNotFound
		}
		return "", fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	inserted, err := s.voteRepo.InsertUnderCap(ctx, identity.UserID, gameID, MaxVotesPerUser)
	if err != nil {
		if errors.Is(err, repositories.ErrVoteExists) {
			return VoteAlreadyCast, nil
		}
		return "", fmt.Errorf("failed to add vote: %w", err)
	}
	if !inserted {
		return VoteCapped, nil
	}

	s.notifier.VotesChanged(ctx)
	return VoteAdded, nil
}
