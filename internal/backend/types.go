package backend

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the email/password pair is
	// rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for a missing, unknown or expired session.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject,omitempty" binding:"max=200"`
	Body    string `json:"message" binding:"required,max=5000"`
}

// Testimonial is a visitor-submitted recommendation awaiting approval.
type Testimonial struct {
	AuthorName    string `json:"author_name" binding:"required,max=200"`
	AuthorTitle   string `json:"author_title,omitempty" binding:"max=200"`
	AuthorCompany string `json:"author_company,omitempty" binding:"max=200"`
	ContentEN     string `json:"content_en" binding:"required,max=2000"`
	ContentFR     string `json:"content_fr,omitempty" binding:"max=2000"`
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is an authenticated admin session.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session has a token and has not expired at now.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

type StoredMessage struct {
	ID        string    `json:"id"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type StoredTestimonial struct {
	ID          string      `json:"id"`
	Testimonial Testimonial `json:"testimonial"`
	Approved    bool        `json:"approved"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AdminSummary is what the admin dashboard shows after login.
type AdminSummary struct {
	MessageCount        int                 `json:"message_count"`
	PendingCount        int                 `json:"pending_count"`
	RecentMessages      []StoredMessage     `json:"recent_messages"`
	PendingTestimonials []StoredTestimonial `json:"pending_testimonials"`
}
