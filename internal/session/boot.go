package session

import (
	"context"
	"time"

	"folioterm/internal/i18n"
	"folioterm/internal/portfolio"
)

// DefaultBootDelay is the pause between boot lines.
const DefaultBootDelay = 140 * time.Millisecond

// BootLines is the localized start-up sequence.
func BootLines(lang i18n.Lang, snap portfolio.Snapshot) []string {
	name := snap.Profile.Name
	if name == "" {
		name = "portfolio"
	}
	return []string{
		i18n.T(lang, "boot.init"),
		i18n.T(lang, "boot.mount"),
		i18n.T(lang, "boot.ready"),
		i18n.T(lang, "boot.welcome", name),
		i18n.T(lang, "boot.hint"),
	}
}

// RunBoot emits one BootLine per line, pausing delay between them, then
// BootDone. A non-positive delay emits everything at once. Cancelling ctx
// stops the sequence without emitting anything further.
func RunBoot(ctx context.Context, lines []string, delay time.Duration, emit func(Event)) error {
	for i, l := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if delay > 0 && i > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		emit(BootLine{Text: l})
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	emit(BootDone{})
	return nil
}
