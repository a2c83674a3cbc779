package views

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndex(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	img := "/public/uploads/games/chess.png"
	var buf bytes.Buffer
	err = r.Execute(&buf, PageIndex, IndexPage{
		Page: Page{
			Identity: &models.Identity{UserID: 1, Handle: "alice"},
			Flashes:  []session.Flash{{Kind: session.FlashSuccess, Message: "Welcome <back>"}},
		},
		Games:       []models.GameStanding{{Game: models.Game{ID: 1, Name: "Chess", Image: &img}, VotesCount: 2}},
		Leaderboard: []models.TeamStanding{{TeamID: 1, Name: "Reds", TotalPoints: 5}},
		VotesCount:  2,
		MaxVotes:    8,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Reds")
	assert.Contains(t, html, `<td class="points">5</td>`)
	assert.Contains(t, html, "2 of 8 votes")
	assert.Contains(t, html, img)
	assert.Contains(t, html, "Welcome &lt;back&gt;")
	assert.Contains(t, html, "/logout")
}

func TestRenderVoteMarksSelections(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Execute(&buf, PageVote, VotePage{
		Page: Page{Identity: &models.Identity{UserID: 1, Handle: "alice"}},
		State: &models.VoteState{
			Games:      []models.Game{{ID: 1, Name: "Chess"}, {ID: 2, Name: "Go"}},
			UserVotes:  []int{2},
			VotesCount: 1,
			MaxVotes:   8,
		},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "1 / 8 votes used, 7 left.")
	assert.Contains(t, html, `class="voted" data-game="2"`)
	assert.NotContains(t, html, `class="voted" data-game="1"`)
}

func TestRenderAdminWithResultToEdit(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	gameID, teamID := 1, 1
	var buf bytes.Buffer
	err = r.Execute(&buf, PageAdmin, AdminPage{
		Page: Page{Identity: &models.Identity{UserID: 1, Handle: "admin", IsAdmin: true}},
		Dashboard: &models.AdminDashboard{
			Games:        []models.Game{{ID: 1, Name: "Chess"}},
			Teams:        []models.Team{{ID: 1, Name: "Reds", Player1ID: &teamID, Player1Handle: "alice"}},
			Users:        []models.User{{ID: 1, Handle: "alice"}},
			Results:      []models.Result{{ID: 4, GameID: &gameID, TeamID: &teamID, Score: 10, Points: 5}},
			ResultToEdit: &models.Result{ID: 4, GameID: &gameID, TeamID: &teamID, Score: 10, Points: 5},
		},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `action="/admin/results/4/update"`)
	assert.Contains(t, html, `<option value="1" selected>Chess</option>`)
	assert.Contains(t, html, "deleted game")
}

func TestRenderWritesStatus(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusNotFound, PageError, ErrorPage{Status: 404, Message: "not here"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not here")

	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "missing", nil))
}
