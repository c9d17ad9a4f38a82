package service

import (
	"context"
	"log"

	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/session"
)

// record writes the audit entry for a change that is already committed. A
// failed write is logged and never undoes the change.
func record(ctx context.Context, rec audit.Recorder, actor session.Actor, entity string, action models.AuditAction, description string, before, after any) {
	if rec == nil {
		return
	}
	if _, err := rec.Record(ctx, actor.Name(), entity, action, description, before, after); err != nil {
		log.Printf("[Audit] %s %s by %s not recorded: %v", action, entity, actor.Name(), err)
	}
}
