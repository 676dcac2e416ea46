// internal/session/session.go
//
// Curbside – web session store.
//
// Context
//   Staff pages (order management, delivery zones, analytics) and account
//   pages (profile, password change) require a signed-in user.  A session
//   row in MySQL maps an opaque cookie value to the user and, crucially, to
//   the bearer token the backend API issued at login.  The web tier itself never validates credentials; it
//   forwards them to the backend and stores what comes back.
//
// Workflow
//   •  Create()      – after backend login, mint an ID and insert the row.
//   •  FromRequest() – cookie → row lookup with expiry check and sliding
//      renewal; misses and expiries are distinguished in metrics.
//   •  Delete()      – logout.
//   •  Require      – middleware gating signed-in trees (/admin, /account), redirecting
//      anonymous requests to the login page.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/curbsidehq/curbside-web/internal/metrics"
)

const lifetime = 14 * 24 * time.Hour // sliding window

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("session: none")

// Session is one signed-in user (staff or account holder).
type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	UserEmail string    `db:"user_email"`
	UserName  string    `db:"user_name"`
	APIToken  string    `db:"api_token"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Store persists sessions in the web_session table.
type Store struct {
	db     *sqlx.DB
	cookie string
	log    *zap.SugaredLogger
}

// NewStore wires the session table and the cookie name served to browsers.
func NewStore(db *sqlx.DB, cookieName string, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.S()
	}
	return &Store{db: db, cookie: cookieName, log: log}
}

// -----------------------------------------------------------------------------
// CRUD
// -----------------------------------------------------------------------------

// Create inserts a fresh session for the given user identity and backend
// token, returning the row to hand to Issue().
func (s *Store) Create(ctx context.Context, userID int64, email, name, apiToken string) (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        id,
		UserID:    userID,
		UserEmail: email,
		UserName:  name,
		APIToken:  apiToken,
		ExpiresAt: time.Now().UTC().Add(lifetime),
	}
	_, err = s.db.ExecContext(ctx, `
	    INSERT INTO web_session
	        (id, user_id, user_email, user_name, api_token, expires_at)
	    VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.UserEmail, sess.UserName,
		sess.APIToken, sess.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Lookup fetches a session by ID, enforcing and sliding the expiry.
func (s *Store) Lookup(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess, `
	    SELECT id, user_id, user_email, user_name, api_token, expires_at
	    FROM web_session WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.SessionLookups.WithLabelValues("miss").Inc()
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(sess.ExpiresAt) {
		metrics.SessionLookups.WithLabelValues("expired").Inc()
		_ = s.Delete(ctx, id)
		return nil, ErrNoSession
	}

	// Sliding renewal; failure here is harmless, the old expiry still holds.
	sess.ExpiresAt = time.Now().UTC().Add(lifetime)
	_, _ = s.db.ExecContext(ctx,
		`UPDATE web_session SET expires_at = ? WHERE id = ?`,
		sess.ExpiresAt, id)

	metrics.SessionLookups.WithLabelValues("hit").Inc()
	return &sess, nil
}

// Delete removes a session row (logout, or expiry cleanup).
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM web_session WHERE id = ?`, id)
	return err
}

// -----------------------------------------------------------------------------
// Cookies
// -----------------------------------------------------------------------------

// Issue sets the session cookie on the response.
func (s *Store) Issue(w http.ResponseWriter, r *http.Request, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// FromRequest resolves the request's cookie to a live session.
func (s *Store) FromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(s.cookie)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return s.Lookup(ctx, c.Value)
}

// -----------------------------------------------------------------------------
// Middleware and context plumbing
// -----------------------------------------------------------------------------

type ctxKey struct{}

// WithSession attaches sess to ctx for downstream handlers.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session stored by Require, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok
}

// Require gates a subtree on a valid session.  Anonymous requests
// are redirected to the login page with the original path as ?next=.
func (s *Store) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.FromRequest(r.Context(), r)
		if errors.Is(err, ErrNoSession) {
			http.Redirect(w, r, "/auth/login?next="+r.URL.Path, http.StatusSeeOther)
			return
		}
		if err != nil {
			s.log.Errorw("session lookup failed", "error", err.Error())
			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// newID returns 32 bytes of URL-safe randomness.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
