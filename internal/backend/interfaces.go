package backend

import (
	"context"

	"folioterm/internal/portfolio"
)

// Client is everything the terminal needs from the content/auth platform.
type Client interface {
	SendMessage(ctx context.Context, msg Message) error
	SubmitTestimonial(ctx context.Context, t Testimonial) error
	Authenticate(ctx context.Context, creds Credentials) (Session, error)
	Snapshot(ctx context.Context) (portfolio.Snapshot, error)
	AdminSummary(ctx context.Context, sess Session) (AdminSummary, error)
}

// Store is the persistence used by the development API server.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveMessage(ctx context.Context, msg Message) (StoredMessage, error)
	SaveTestimonial(ctx context.Context, t Testimonial) (StoredTestimonial, error)
	CreateAdmin(ctx context.Context, email, password string) error
	Login(ctx context.Context, creds Credentials) (Session, error)
	LookupSession(ctx context.Context, token string) (Session, error)
	Summary(ctx context.Context, limit int) (AdminSummary, error)
	Close() error
}
