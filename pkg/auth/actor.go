package auth

import (
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/pkg/enums"
)

// Actor is the authenticated identity a request acts as.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == enums.RoleAdmin }
