package domain

import "time"

// Customer is a renter with a loyalty points balance. The balance column is
// only ever mutated through the ledger's atomic update path.
type Customer struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	PointsBalance int32     `json:"points_balance"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

type StaffRole string

const (
	StaffRoleAgent   StaffRole = "AGENT"
	StaffRoleManager StaffRole = "MANAGER"
	StaffRoleAdmin   StaffRole = "ADMIN"
)

// StaffUser is an operations user of the staff API.
type StaffUser struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedOn    time.Time `json:"created_on"`
}
