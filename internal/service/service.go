// Package service implements the splitit Connect RPC services over the
// record store and the settlement calculator.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitit/internal/events"
)

// publish announces a group change. Delivery failures are logged and never
// fail the RPC; readers can always pull a fresh snapshot.
func publish(ctx context.Context, p events.Publisher, groupID, action string) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, events.GroupChanged(groupID, action)); err != nil {
		slog.WarnContext(ctx, "Failed to publish change event",
			"group_id", groupID,
			"action", action,
			"error", err,
		)
	}
}

// normalizeName trims surrounding whitespace and collapses inner runs.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
