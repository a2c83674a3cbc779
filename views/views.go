// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex    = "index"
	PageLogin    = "login"
	PageRegister = "register"
	PageVote     = "vote"
	PageAdmin    = "admin"
	PageError    = "error"
)

var pageNames = []string{PageIndex, PageLogin, PageRegister, PageVote, PageAdmin, PageError}

// Page carries what the shared layout needs on every page.
type Page struct {
	Title    string
	Identity *models.Identity
	Flashes  []session.Flash
}

type IndexPage struct {
	Page
	Games       []models.GameStanding
	Leaderboard []models.TeamStanding
	VotesCount  int
	MaxVotes    int
}

type VotePage struct {
	Page
	State *models.VoteState
}

type AdminPage struct {
	Page
	Dashboard *models.AdminDashboard
}

type ErrorPage struct {
	Page
	Status  int
	Message string
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"intval": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"inc":  func(i int) int { return i + 1 },
	"dict": dict,
}

// dict builds the argument map for nested templates from key/value pairs.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs, got %d arguments", len(pairs))
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.Execute(&buf, page, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Execute(w io.Writer, page string, data interface{}) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	return nil
}
