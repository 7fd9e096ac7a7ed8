// models/user.go
package models

import "time"

const (
	UsersCollection                = "users"
	RegistrationRequestsCollection = "registration_requests"
	DeviceTokensCollection         = "device_tokens"
)

const (
	UserActive = "active"
	UserBanned = "banned"
)

// User is an account. Contact is the unique login identifier (phone number
// in practice). PasswordHash is a bcrypt hash; Redacted strips it before the
// record leaves the service.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	DepartmentID   string `json:"departmentId"`
	Role           Role   `json:"role"`
	Status         string `json:"status,omitempty"`
	InvitationCode string `json:"invitationCode,omitempty"`
	PasswordHash   string `json:"passwordHash,omitempty"`
}

func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

func (u User) Ref() PersonRef {
	return PersonRef{ID: u.ID, Name: u.Name, Phone: u.Contact}
}

// RegistrationRequest is a pending signup. Approval converts it into a
// RegularUser and removes it from the queue; rejection keeps it, marked.
type RegistrationRequest struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Contact         string        `json:"contact"`
	DepartmentName  string        `json:"departmentName"`
	InvitationCode  string        `json:"invitationCode"`
	InvitedByUserID string        `json:"invitedByUserId,omitempty"`
	Status          RequestStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	PasswordHash    string        `json:"passwordHash,omitempty"`
}

// DeviceToken binds a push token to a user for the notification fan-out.
type DeviceToken struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"` // android / ios / web
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthUser is the verified caller context injected by the auth middleware.
// The core only authorizes with it, never authenticates.
type AuthUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"departmentId,omitempty"`
}
