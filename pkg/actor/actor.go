// Package actor identifies the employee performing an action.
//
// The auth middleware stores an Actor on the request context; services read
// it back to stamp processed_by columns and to log who did what. Background
// sweeps run as SystemActor.
package actor

import (
	"context"
	"fmt"
)

// Actor represents the employee (or the system) performing an action.
type Actor struct {
	EmployeeID   int64  `json:"employee_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	TokenID      string `json:"-"`
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a.IsSystem() {
		return "system"
	}
	return fmt.Sprintf("%s (#%d, %s)", a.Name, a.EmployeeID, a.Role)
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a == nil || a.EmployeeID == 0
}

// ProcessedBy returns the employee ID to record on written rows, nil for the system
func (a *Actor) ProcessedBy() *int64 {
	if a.IsSystem() {
		return nil
	}
	id := a.EmployeeID
	return &id
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present (e.g., scheduled jobs).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// SystemActor returns an Actor representing the system itself.
// Use this for scheduled sweeps and other system-initiated operations.
func SystemActor() *Actor {
	return &Actor{Name: "System"}
}
