// Package session keeps the caller identity and one-shot flash messages in
// HMAC-signed cookies.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/lanoel/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	SessionCookieName = "lanoel_session"
	FlashCookieName   = "lanoel_flash"

	FlashSuccess = "success"
	FlashError   = "error"
)

var ErrInvalidSession = errors.New("invalid or expired session")

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type sessionClaims struct {
	UserID  int    `json:"user_id"`
	Handle  string `json:"name"`
	IsAdmin bool   `json:"admin"`
	jwt.RegisteredClaims
}

type flashClaims struct {
	Messages []Flash `json:"messages"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secureCookies bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secureCookies,
		now:    time.Now,
	}
}

// Establish binds the response to identity, replacing any previous session.
func (m *Manager) Establish(w http.ResponseWriter, identity models.Identity) error {
	now := m.now()
	claims := sessionClaims{
		UserID:  identity.UserID,
		Handle:  identity.Handle,
		IsAdmin: identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := m.sign(claims)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}
	m.setCookie(w, SessionCookieName, token, int(m.ttl.Seconds()))
	return nil
}

// Identity decodes the session cookie. A request without a cookie yields
// (nil, nil); a tampered or expired cookie yields ErrInvalidSession.
func (m *Manager) Identity(r *http.Request) (*models.Identity, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	var claims sessionClaims
	if err := m.parse(cookie.Value, &claims); err != nil {
		return nil, ErrInvalidSession
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidSession
	}

	return &models.Identity{
		UserID:  claims.UserID,
		Handle:  claims.Handle,
		IsAdmin: claims.IsAdmin,
	}, nil
}

func (m *Manager) Destroy(w http.ResponseWriter) {
	m.setCookie(w, SessionCookieName, "", -1)
}

// AddFlash queues a message for the next rendered page, keeping messages
// already queued on this request.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	messages := m.readFlashes(r)
	messages = append(messages, Flash{Kind: kind, Message: message})

	token, err := m.sign(flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(10 * time.Minute)),
		},
	})
	if err != nil {
		return
	}
	m.setCookie(w, FlashCookieName, token, 600)
	// later AddFlash calls on the same request see this message too
	r.AddCookie(&http.Cookie{Name: FlashCookieName, Value: token})
}

// PopFlashes returns queued messages and clears them.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	messages := m.readFlashes(r)
	if _, err := r.Cookie(FlashCookieName); err == nil {
		m.setCookie(w, FlashCookieName, "", -1)
	}
	return messages
}

func (m *Manager) readFlashes(r *http.Request) []Flash {
	var token string
	for _, c := range r.Cookies() {
		if c.Name == FlashCookieName {
			token = c.Value // last one wins
		}
	}
	if token == "" {
		return nil
	}
	var claims flashClaims
	if err := m.parse(token, &claims); err != nil {
		return nil
	}
	return claims.Messages
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(token string, claims jwt.Claims) error {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	return err
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
