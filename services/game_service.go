package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
	"github.com/Dosada05/lanoel/storage"
)

var ErrImageUploadFailed = errors.New("failed to store image")

type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type GameInput struct {
	Name        string
	Description string
	OrderIndex  int
	Image       *ImageUpload // optional
}

type GameService interface {
	CreateGame(ctx context.Context, input GameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id int) error
	ListGames(ctx context.Context) ([]models.Game, error)
}

type gameService struct {
	db       *db.DB
	gameRepo repositories.GameRepository
	voteRepo repositories.VoteRepository
	uploader storage.FileUploader
	notifier ChangeNotifier
}

func NewGameService(
	dbConn *db.DB,
	gameRepo repositories.GameRepository,
	voteRepo repositories.VoteRepository,
	uploader storage.FileUploader,
	notifier ChangeNotifier,
) GameService {
	return &gameService{
		db:       dbConn,
		gameRepo: gameRepo,
		voteRepo: voteRepo,
		uploader: uploader,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *gameService) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", ErrValidationFailed)
	}

	game := &models.Game{
		Name:        name,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
	}
	var imageKey string
	if input.Image != nil {
		key, location, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		game.Image = &location
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		s.discardImage(ctx, imageKey)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.notifier.VotesChanged(ctx)
	return game, nil
}

// UpdateGame overwrites the row. The stored image stays unless a new one
// is supplied.
func (s *gameService) UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", ErrValidationFailed)
	}

	game := &models.Game{
		ID:          id,
		Name:        name,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
	}
	var imageKey string
	if input.Image != nil {
		key, location, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		game.Image = &location
	}

	if err := s.gameRepo.Update(ctx, game, imageKey != ""); err != nil {
		s.discardImage(ctx, imageKey)
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}

	s.notifier.VotesChanged(ctx)
	return game, nil
}

// DeleteGame removes the game and the votes cast for it. Results that
// reference the game are left in place.
func (s *gameService) DeleteGame(ctx context.Context, id int) error {
	err := s.db.WithTx(ctx, func(tx db.Executor) error {
		if _, err := s.voteRepo.DeleteByGame(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete votes of game %d: %w", id, err)
		}
		return s.gameRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}

	s.notifier.VotesChanged(ctx)
	return nil
}

func (s *gameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *gameService) storeImage(ctx context.Context, img *ImageUpload) (key, location string, err error) {
	if s.uploader == nil {
		return "", "", fmt.Errorf("%w: no uploader configured", ErrImageUploadFailed)
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res, err := s.uploader.Upload(ctx, storage.NewImageKey(img.Filename), contentType, img.Reader)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrImageUploadFailed, err)
	}
	return res.Key, res.Location, nil
}

// discardImage removes an image stored for a write that did not go through.
// Images replaced by a successful update are kept.
func (s *gameService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_ = s.uploader.Delete(ctx, key)
}
