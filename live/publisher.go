package live

import (
	"context"
	"log/slog"

	"github.com/Dosada05/lanoel/services"
)

// Publisher turns service change notifications into hub broadcasts carrying
// freshly computed aggregates.
type Publisher struct {
	hub    *Hub
	board  services.LeaderboardService
	logger *slog.Logger
}

var _ services.ChangeNotifier = (*Publisher)(nil)

func NewPublisher(hub *Hub, board services.LeaderboardService, logger *slog.Logger) *Publisher {
	return &Publisher{hub: hub, board: board, logger: logger}
}

func (p *Publisher) VotesChanged(ctx context.Context) {
	if p.hub.ClientCount() == 0 {
		return
	}
	games, err := p.board.GameVoteCounts(ctx)
	if err != nil {
		p.logger.Error("failed to compute vote counts for broadcast", slog.Any("error", err))
		return
	}
	p.hub.Broadcast(Message{Type: MessageVotesUpdated, Payload: games})
}

func (p *Publisher) LeaderboardChanged(ctx context.Context) {
	if p.hub.ClientCount() == 0 {
		return
	}
	teams, err := p.board.TeamLeaderboard(ctx)
	if err != nil {
		p.logger.Error("failed to compute leaderboard for broadcast", slog.Any("error", err))
		return
	}
	p.hub.Broadcast(Message{Type: MessageLeaderboardUpdated, Payload: teams})
}
