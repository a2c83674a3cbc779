package services

import "context"

// ChangeNotifier is told about writes that change the public aggregates.
// Implementations must not block the caller for long.
type ChangeNotifier interface {
	VotesChanged(ctx context.Context)
	LeaderboardChanged(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) VotesChanged(context.Context)       {}
func (noopNotifier) LeaderboardChanged(context.Context) {}

func notifierOrNoop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
