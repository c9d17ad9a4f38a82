// Package session carries the authenticated actor of a request. Handlers
// read it from the request context once and pass it explicitly to services.
package session

import (
	"context"

	"github.com/Eursukkul/canchas-booking/internal/models"
)

type Module string

const (
	ModuleFields       Module = "fields"
	ModuleClients      Module = "clients"
	ModuleReservations Module = "reservations"
	ModulePayments     Module = "payments"
	ModuleReports      Module = "reports"
	ModuleAudit        Module = "audit"
	ModuleUsers        Module = "users"
)

var permissions = map[models.Role][]Module{
	models.RoleAdmin:      {ModuleFields, ModuleClients, ModuleReservations, ModulePayments, ModuleReports, ModuleAudit, ModuleUsers},
	models.RoleOperator:   {ModuleFields, ModuleClients, ModuleReservations, ModulePayments, ModuleReports},
	models.RoleConsultant: {ModuleReports},
}

type Actor struct {
	UserID uint
	Email  string
	Role   models.Role
}

// System is the actor for changes not triggered by a logged-in user.
var System = Actor{Email: models.ActorSystem}

// Name is the identifier written to the audit log.
func (a Actor) Name() string {
	if a.Email == "" {
		return models.ActorSystem
	}
	return a.Email
}

func (a Actor) Can(m Module) bool {
	for _, allowed := range permissions[a.Role] {
		if allowed == m {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
