package domain

import "time"

type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership links a user to an organization. Creation is best-effort during
// sign-up: a failed link never unwinds the created user.
type Membership struct {
	ID             string
	UserID         string
	OrganizationID string
	CreatedAt      time.Time
}
