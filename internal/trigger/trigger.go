// Package trigger decides when a repeating tilder run starts its next pass.
// Triggers post Events into a latest-wins mailbox; the caller drains it.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/tilder/internal/logging"
	"github.com/raoulx24/tilder/internal/mailbox"
)

// Event asks for another backup pass.
type Event struct {
	Reason string
	Path   string
	At     time.Time
}

// Schedule posts an Event on every firing of the cron expression until
// ctx is done. Standard five-field expressions and @descriptors are accepted.
func Schedule(ctx context.Context, expr string, mb *mailbox.Mailbox[Event], log logging.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		log.Debug("schedule fired", "schedule", expr)
		mb.Put(Event{Reason: "schedule", At: time.Now()})
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", expr, err)
	}

	c.Start()
	log.Info("schedule started", "schedule", expr)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
