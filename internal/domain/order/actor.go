package order

import (
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the caller's role as asserted by the identity provider
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleCommercial Role = "COMMERCIAL"
	RoleAdmin      Role = "ADMIN"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleCommercial, RoleAdmin:
		return true
	}
	return false
}

// IsStaff returns true for roles allowed to act on another client's orders
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleCommercial
}

// OrderActor is the resolved identity an order operation runs under: either
// a client acting for themselves, or staff acting on behalf of a client.
// It is resolved once at the entry point and passed down, never re-derived
// per helper.
type OrderActor struct {
	ActorID  uuid.UUID
	Role     Role
	ClientID uuid.UUID // the client the operation targets
}

// SelfActor builds the actor for a client operating their own account
func SelfActor(clientID uuid.UUID) OrderActor {
	return OrderActor{ActorID: clientID, Role: RoleClient, ClientID: clientID}
}

// OnBehalfActor builds the actor for staff operating a client account
func OnBehalfActor(actorID uuid.UUID, role Role, targetClientID uuid.UUID) (OrderActor, error) {
	if !role.IsStaff() {
		return OrderActor{}, shared.ErrForbidden
	}
	if targetClientID == uuid.Nil {
		return OrderActor{}, shared.NewValidationError("Client cible obligatoire")
	}
	return OrderActor{ActorID: actorID, Role: role, ClientID: targetClientID}, nil
}

// ResolveActor derives the actor from the caller identity and an optional
// target client: clients may only target themselves, staff may target any
// client. Ownership checks must run before any pricing or credit logic.
func ResolveActor(callerID uuid.UUID, role Role, forClientID *uuid.UUID) (OrderActor, error) {
	if !role.IsValid() {
		return OrderActor{}, shared.ErrForbidden
	}
	if forClientID == nil || *forClientID == callerID {
		if role.IsStaff() && forClientID == nil {
			return OrderActor{}, shared.NewValidationError("Client cible obligatoire")
		}
		return SelfActor(callerID), nil
	}
	return OnBehalfActor(callerID, role, *forClientID)
}

// OwnsOrder reports whether the actor may mutate the given order
func (a OrderActor) OwnsOrder(o *Order) bool {
	if a.Role.IsStaff() {
		return true
	}
	return o.ClientID == a.ActorID
}
