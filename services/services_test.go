package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/repositories"
	"github.com/Dosada05/lanoel/storage"
	"github.com/Dosada05/lanoel/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	mu          sync.Mutex
	votes       int
	leaderboard int
}

func (n *recordingNotifier) VotesChanged(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.votes++
}

func (n *recordingNotifier) LeaderboardChanged(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leaderboard++
}

type memoryUploader struct {
	files map[string][]byte
}

func (u *memoryUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.files[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	delete(u.files, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "/public/uploads/" + key
}

type fixture struct {
	conn        *db.DB
	notifier    *recordingNotifier
	uploader    *memoryUploader
	auth        AuthService
	votes       VoteService
	games       GameService
	teams       TeamService
	results     ResultService
	leaderboard LeaderboardService
	admin       AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := testutil.OpenDB(t)
	n := &recordingNotifier{}
	up := &memoryUploader{files: map[string][]byte{}}

	userRepo := repositories.NewUserRepository(conn)
	gameRepo := repositories.NewGameRepository(conn)
	teamRepo := repositories.NewTeamRepository(conn)
	resultRepo := repositories.NewResultRepository(conn)
	voteRepo := repositories.NewVoteRepository(conn)

	return &fixture{
		conn:        conn,
		notifier:    n,
		uploader:    up,
		auth:        NewAuthService(userRepo, bcrypt.MinCost),
		votes:       NewVoteService(voteRepo, gameRepo, n),
		games:       NewGameService(conn, gameRepo, voteRepo, up, n),
		teams:       NewTeamService(teamRepo, n),
		results:     NewResultService(resultRepo, n),
		leaderboard: NewLeaderboardService(repositories.NewLeaderboardRepository(conn)),
		admin:       NewAdminService(gameRepo, teamRepo, resultRepo, userRepo),
	}
}

func (f *fixture) createGames(t *testing.T, n int) []int {
	t.Helper()
	ids := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		g, err := f.games.CreateGame(context.Background(), GameInput{Name: "Game " + string(rune('A'+i-1)), OrderIndex: i})
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}
	return ids
}

func TestRegisterRejectsDuplicateHandle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterInput{Handle: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.Empty(t, user.PasswordHash)

	_, err = f.auth.Register(ctx, RegisterInput{Handle: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrHandleConflict)

	var n int
	require.NoError(t, f.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE handle = ?`, "alice").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRegisterValidatesFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), RegisterInput{Handle: "  ", Password: "pw"})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.auth.Register(context.Background(), RegisterInput{Handle: "bob"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Handle: "alice", Password: "pw1"})
	require.NoError(t, err)

	user, err := f.auth.Login(ctx, LoginInput{Handle: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Handle)

	_, wrongPassword := f.auth.Login(ctx, LoginInput{Handle: "alice", Password: "nope"})
	_, unknownHandle := f.auth.Login(ctx, LoginInput{Handle: "carol", Password: "pw1"})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownHandle, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownHandle.Error())
}

func TestToggleVoteRespectsCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.createGames(t, MaxVotesPerUser+1)
	me := &models.Identity{UserID: 1, Handle: "alice"}

	for _, id := range ids[:MaxVotesPerUser] {
		outcome, err := f.votes.Toggle(ctx, me, id)
		require.NoError(t, err)
		assert.Equal(t, VoteAdded, outcome)
	}

	outcome, err := f.votes.Toggle(ctx, me, ids[MaxVotesPerUser])
	require.NoError(t, err)
	assert.Equal(t, VoteCapped, outcome)
	assert.False(t, outcome.Changed())

	count, err := f.votes.Count(ctx, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, MaxVotesPerUser, count)
}

func TestToggleVoteTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.createGames(t, 3)
	me := &models.Identity{UserID: 1, Handle: "alice"}

	for _, id := range ids {
		_, err := f.votes.Toggle(ctx, me, id)
		require.NoError(t, err)
	}
	state, err := f.votes.State(ctx, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, ids, state.UserVotes)
	assert.Equal(t, 3, state.VotesCount)
	assert.Equal(t, MaxVotesPerUser-3, state.Remaining())

	outcome, err := f.votes.Toggle(ctx, me, ids[0])
	require.NoError(t, err)
	assert.Equal(t, VoteRemoved, outcome)

	state, err = f.votes.State(ctx, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.VotesCount)
	assert.False(t, state.HasVoted(ids[0]))
	assert.True(t, state.HasVoted(ids[1]))

	outcome, err = f.votes.Toggle(ctx, me, ids[0])
	require.NoError(t, err)
	assert.Equal(t, VoteAdded, outcome)
	count, err := f.votes.Count(ctx, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestToggleVoteRequiresIdentityAndGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.votes.Toggle(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.votes.Toggle(ctx, &models.Identity{UserID: 1}, 404)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameImageKeptUnlessReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	game, err := f.games.CreateGame(ctx, GameInput{
		Name:  "Chess",
		Image: &ImageUpload{Filename: "board.png", ContentType: "image/png", Reader: bytes.NewReader([]byte("img"))},
	})
	require.NoError(t, err)
	require.NotNil(t, game.Image)
	assert.True(t, strings.HasPrefix(*game.Image, "/public/uploads/games/"))
	assert.Len(t, f.uploader.files, 1)
	original := *game.Image

	_, err = f.games.UpdateGame(ctx, game.ID, GameInput{Name: "Chess 960", OrderIndex: 4})
	require.NoError(t, err)
	games, err := f.games.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Chess 960", games[0].Name)
	assert.Equal(t, original, *games[0].Image)

	_, err = f.games.UpdateGame(ctx, game.ID, GameInput{
		Name:  "Chess 960",
		Image: &ImageUpload{Filename: "new.jpg", Reader: strings.NewReader("img2")},
	})
	require.NoError(t, err)
	games, err = f.games.ListGames(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, original, *games[0].Image)
	assert.True(t, strings.HasSuffix(*games[0].Image, ".jpg"))
}

func TestGameValidationAndNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.games.CreateGame(ctx, GameInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.games.UpdateGame(ctx, 77, GameInput{Name: "x"})
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = f.games.UpdateGame(ctx, 77, GameInput{
		Name:  "x",
		Image: &ImageUpload{Filename: "orphan.png", Reader: strings.NewReader("img")},
	})
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Empty(t, f.uploader.files)
	assert.ErrorIs(t, f.games.DeleteGame(ctx, 77), ErrGameNotFound)
}

func TestDeleteGameKeepsResultsAndDropsVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := f.createGames(t, 2)
	me := &models.Identity{UserID: 1}

	team, err := f.teams.CreateTeam(ctx, TeamInput{Name: "Reds"})
	require.NoError(t, err)
	_, err = f.results.CreateResult(ctx, ResultInput{GameID: &ids[0], TeamID: &team.ID, Score: 10, Points: 5})
	require.NoError(t, err)
	_, err = f.votes.Toggle(ctx, me, ids[0])
	require.NoError(t, err)
	_, err = f.votes.Toggle(ctx, me, ids[1])
	require.NoError(t, err)

	require.NoError(t, f.games.DeleteGame(ctx, ids[0]))

	dash, err := f.admin.Dashboard(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dash.Results, 1)
	assert.Empty(t, dash.Results[0].GameName)

	board, err := f.leaderboard.TeamLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, board[0].TotalPoints)

	count, err := f.votes.Count(ctx, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLeaderboardScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chess, err := f.games.CreateGame(ctx, GameInput{Name: "Chess", OrderIndex: 1})
	require.NoError(t, err)
	reds, err := f.teams.CreateTeam(ctx, TeamInput{Name: "Reds"})
	require.NoError(t, err)
	_, err = f.teams.CreateTeam(ctx, TeamInput{Name: "Blues"})
	require.NoError(t, err)
	_, err = f.results.CreateResult(ctx, ResultInput{GameID: &chess.ID, TeamID: &reds.ID, Score: 10, Points: 5})
	require.NoError(t, err)

	overview, err := f.leaderboard.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview.Leaderboard, 2)
	assert.Equal(t, "Reds", overview.Leaderboard[0].Name)
	assert.Equal(t, 5, overview.Leaderboard[0].TotalPoints)
	assert.Equal(t, "Blues", overview.Leaderboard[1].Name)
	assert.Equal(t, 0, overview.Leaderboard[1].TotalPoints)

	require.Len(t, overview.Games, 1)
	assert.Equal(t, 0, overview.Games[0].VotesCount)

	assert.Equal(t, 3, f.notifier.leaderboard)
	assert.Equal(t, 1, f.notifier.votes)
}

func TestResultCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.results.CreateResult(ctx, ResultInput{Score: 1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	gameID, teamID := 1, 1
	res, err := f.results.CreateResult(ctx, ResultInput{GameID: &gameID, TeamID: &teamID})
	require.NoError(t, err)
	assert.Zero(t, res.Points)

	_, err = f.results.UpdateResult(ctx, res.ID, ResultInput{GameID: &gameID, TeamID: &teamID, Score: 3, Points: 9})
	require.NoError(t, err)

	dash, err := f.admin.Dashboard(ctx, &res.ID)
	require.NoError(t, err)
	require.NotNil(t, dash.ResultToEdit)
	assert.Equal(t, 9, dash.ResultToEdit.Points)

	missing := 999
	dash, err = f.admin.Dashboard(ctx, &missing)
	require.NoError(t, err)
	assert.Nil(t, dash.ResultToEdit)

	require.NoError(t, f.results.DeleteResult(ctx, res.ID))
	assert.ErrorIs(t, f.results.DeleteResult(ctx, res.ID), ErrResultNotFound)
	_, err = f.results.GetResult(ctx, res.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestTeamCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.teams.CreateTeam(ctx, TeamInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	team, err := f.teams.CreateTeam(ctx, TeamInput{Name: "Reds", Player1ID: testutil.IntPtr(5)})
	require.NoError(t, err)

	_, err = f.teams.UpdateTeam(ctx, team.ID, TeamInput{Name: "Crimson"})
	require.NoError(t, err)
	_, err = f.teams.UpdateTeam(ctx, 999, TeamInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	require.NoError(t, f.teams.DeleteTeam(ctx, team.ID))
	assert.ErrorIs(t, f.teams.DeleteTeam(ctx, team.ID), ErrTeamNotFound)
}
