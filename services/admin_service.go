package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	// Dashboard loads everything the admin page lists. editResultID, when
	// set, preloads that result for the edit form; a missing row is ignored.
	Dashboard(ctx context.Context, editResultID *int) (*models.AdminDashboard, error)
}

type adminService struct {
	gameRepo   repositories.GameRepository
	teamRepo   repositories.TeamRepository
	resultRepo repositories.ResultRepository
	userRepo   repositories.UserRepository
}

func NewAdminService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	resultRepo repositories.ResultRepository,
	userRepo repositories.UserRepository,
) AdminService {
	return &adminService{
		gameRepo:   gameRepo,
		teamRepo:   teamRepo,
		resultRepo: resultRepo,
		userRepo:   userRepo,
	}
}

func (s *adminService) Dashboard(ctx context.Context, editResultID *int) (*models.AdminDashboard, error) {
	var dash models.AdminDashboard

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dash.Games, err = s.gameRepo.List(gCtx)
		return wrapErr(err, "list games")
	})
	g.Go(func() (err error) {
		dash.Teams, err = s.teamRepo.List(gCtx)
		return wrapErr(err, "list teams")
	})
	g.Go(func() (err error) {
		dash.Results, err = s.resultRepo.ListDetailed(gCtx)
		return wrapErr(err, "list results")
	})
	g.Go(func() (err error) {
		dash.Users, err = s.userRepo.List(gCtx)
		return wrapErr(err, "list users")
	})
	if editResultID != nil {
		g.Go(func() error {
			res, err := s.resultRepo.GetByID(gCtx, *editResultID)
			if errors.Is(err, repositories.ErrResultNotFound) {
				return nil
			}
			dash.ResultToEdit = res
			return wrapErr(err, "get result to edit")
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

func wrapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
