package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// DefaultSessionTTL is how long an admin session stays valid.
const DefaultSessionTTL = 12 * time.Hour

// SQLiteStore persists messages, testimonials and admin accounts for the
// development API server.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, ttl: DefaultSessionTTL, now: time.Now}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS testimonials (
			id TEXT PRIMARY KEY,
			author_name TEXT NOT NULL,
			author_title TEXT NOT NULL DEFAULT '',
			author_company TEXT NOT NULL DEFAULT '',
			content_en TEXT NOT NULL,
			content_fr TEXT NOT NULL DEFAULT '',
			approved INTEGER NOT NULL DEFAULT 0,
			created_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			email TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			token TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			expires_ts TEXT NOT NULL,
			FOREIGN KEY(email) REFERENCES admin_users(email)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, msg Message) (StoredMessage, error) {
	out := StoredMessage{ID: uuid.NewString(), Message: msg, CreatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages(id, name, email, subject, body, created_ts) VALUES(?,?,?,?,?,?)`,
		out.ID,
		strings.TrimSpace(msg.Name),
		strings.TrimSpace(msg.Email),
		strings.TrimSpace(msg.Subject),
		msg.Body,
		out.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return StoredMessage{}, fmt.Errorf("save message: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveTestimonial(ctx context.Context, t Testimonial) (StoredTestimonial, error) {
	out := StoredTestimonial{ID: uuid.NewString(), Testimonial: t, CreatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO testimonials(id, author_name, author_title, author_company, content_en, content_fr, created_ts)
		VALUES(?,?,?,?,?,?,?)
	`,
		out.ID,
		strings.TrimSpace(t.AuthorName),
		strings.TrimSpace(t.AuthorTitle),
		strings.TrimSpace(t.AuthorCompany),
		t.ContentEN,
		t.ContentFR,
		out.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return StoredTestimonial{}, fmt.Errorf("save testimonial: %w", err)
	}
	return out, nil
}

// CreateAdmin adds an admin account, or resets the password of an existing
// one.
func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return errors.New("create admin: email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_users(email, password_hash, created_ts) VALUES(?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash
	`, email, string(hash), s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// Login checks the credentials and opens a new session.
func (s *SQLiteStore) Login(ctx context.Context, creds Credentials) (Session, error) {
	email := normalizeEmail(creds.Email)
	var hash string
	row := s.db.QueryRowContext(ctx, `SELECT password_hash FROM admin_users WHERE email = ?`, email)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	sess := Session{
		Token:     uuid.NewString(),
		Email:     email,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions(token, email, expires_ts) VALUES(?,?,?)`,
		sess.Token, sess.Email, sess.ExpiresAt.Format(timeLayout),
	); err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	return sess, nil
}

// LookupSession returns the live session for token.
func (s *SQLiteStore) LookupSession(ctx context.Context, token string) (Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return Session{}, ErrUnauthorized
	}
	var (
		sess       Session
		expiresRaw string
	)
	row := s.db.QueryRowContext(ctx, `SELECT token, email, expires_ts FROM admin_sessions WHERE token = ?`, token)
	if err := row.Scan(&sess.Token, &sess.Email, &expiresRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}
	if t, err := time.Parse(timeLayout, expiresRaw); err == nil {
		sess.ExpiresAt = t
	}
	if !sess.Valid(s.now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token = ?`, token)
		return Session{}, ErrUnauthorized
	}
	return sess, nil
}

// Summary reports counts plus the most recent messages and pending
// testimonials, newest first.
func (s *SQLiteStore) Summary(ctx context.Context, limit int) (AdminSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	var out AdminSummary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM testimonials WHERE approved = 0)
	`)
	if err := row.Scan(&out.MessageCount, &out.PendingCount); err != nil {
		return AdminSummary{}, fmt.Errorf("summary counts: %w", err)
	}

	msgs, err := s.recentMessages(ctx, limit)
	if err != nil {
		return AdminSummary{}, err
	}
	out.RecentMessages = msgs

	pending, err := s.pendingTestimonials(ctx, limit)
	if err != nil {
		return AdminSummary{}, err
	}
	out.PendingTestimonials = pending
	return out, nil
}

func (s *SQLiteStore) recentMessages(ctx context.Context, limit int) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, body, created_ts
		FROM messages
		ORDER BY created_ts DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()
	out := []StoredMessage{}
	for rows.Next() {
		var (
			m       StoredMessage
			created string
		)
		if err := rows.Scan(&m.ID, &m.Message.Name, &m.Message.Email, &m.Message.Subject, &m.Message.Body, &created); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, created); err == nil {
			m.CreatedAt = t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) pendingTestimonials(ctx context.Context, limit int) ([]StoredTestimonial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_name, author_title, author_company, content_en, content_fr, approved, created_ts
		FROM testimonials
		WHERE approved = 0
		ORDER BY created_ts DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending testimonials: %w", err)
	}
	defer rows.Close()
	out := []StoredTestimonial{}
	for rows.Next() {
		var (
			t        StoredTestimonial
			approved int
			created  string
		)
		if err := rows.Scan(&t.ID, &t.Testimonial.AuthorName, &t.Testimonial.AuthorTitle, &t.Testimonial.AuthorCompany,
			&t.Testimonial.ContentEN, &t.Testimonial.ContentFR, &approved, &created); err != nil {
			return nil, err
		}
		t.Approved = approved != 0
		if ts, err := time.Parse(timeLayout, created); err == nil {
			t.CreatedAt = ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
