package backend

import (
	"context"
	"fmt"

	"folioterm/internal/portfolio"
)

// LocalClient serves a Client straight from a Store, for running the
// terminal without a network API.
type LocalClient struct {
	Store Store
	Snap  portfolio.Snapshot
}

func (c *LocalClient) SendMessage(ctx context.Context, msg Message) error {
	if err := validate.Struct(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	_, err := c.Store.SaveMessage(ctx, msg)
	return err
}

func (c *LocalClient) SubmitTestimonial(ctx context.Context, t Testimonial) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("submit testimonial: %w", err)
	}
	_, err := c.Store.SaveTestimonial(ctx, t)
	return err
}

func (c *LocalClient) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	if err := validate.Struct(creds); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return c.Store.Login(ctx, creds)
}

func (c *LocalClient) Snapshot(context.Context) (portfolio.Snapshot, error) {
	return c.Snap.Public(), nil
}

func (c *LocalClient) AdminSummary(ctx context.Context, sess Session) (AdminSummary, error) {
	if _, err := c.Store.LookupSession(ctx, sess.Token); err != nil {
		return AdminSummary{}, err
	}
	return c.Store.Summary(ctx, 10)
}
