package core

import (
	"time"

	"github.com/google/uuid"
)

// UserRoleName is type of user role
type UserRoleName string

const (
	// RoleCandidate is a regular user practicing interviews
	RoleCandidate UserRoleName = "CANDIDATE"
	// RoleExpert can be matched as the interviewer side of paid-plan sessions
	RoleExpert UserRoleName = "EXPERT"
)

type User struct {
	ID        string       `json:"id,omitempty" db:"id"`
	Email     string       `json:"email" db:"email"`
	Name      string       `json:"name" db:"name"`
	Role      UserRoleName `json:"role" db:"role"`
	Plan      PlanType     `json:"plan" db:"plan"`
	CreatedAt time.Time    `json:"-" db:"created_at"`
}

// NewUser creates new user subject
func NewUser() *User {
	return &User{ID: uuid.New().String(), Role: RoleCandidate, Plan: PlanFree}
}
