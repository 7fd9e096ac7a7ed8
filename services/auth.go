// services/auth.go
package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"equiptrack/models"
	"equiptrack/store"
)

// Authenticate checks contact+password and returns the redacted account.
// A contact that only matches a pending registration gets a dedicated error
// so the client can tell the user to wait for approval.
func (s *Service) Authenticate(ctx context.Context, contact, password string) (models.User, error) {
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Contact != contact {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return models.User{}, ErrInvalidCredentials
		}
		if u.Status == models.UserBanned {
			return models.User{}, ErrUserBanned
		}
		return u.Redacted(), nil
	}

	regs, err := store.ReadAll[models.RegistrationRequest](ctx, s.store, models.RegistrationRequestsCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, r := range regs {
		if r.Contact == contact && r.Status == models.RequestPending {
			return models.User{}, ErrRegistrationPending
		}
	}
	return models.User{}, ErrInvalidCredentials
}

type SignupInput struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	Password       string `json:"password"`
	DepartmentName string `json:"departmentName"`
	InvitationCode string `json:"invitationCode"`
}

// Signup files a registration request. The invitation code must belong to a
// SuperAdmin, Admin or AdvancedUser; the new account stays pending until one
// of them approves it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.RegistrationRequest, error) {
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.RegistrationRequest{}, err
	}
	var inviter *models.User
	for i := range users {
		if users[i].InvitationCode != "" && users[i].InvitationCode == in.InvitationCode {
			inviter = &users[i]
			break
		}
	}
	if inviter == nil || !inviter.Role.CanManageItems() {
		return models.RegistrationRequest{}, ErrInvalidInvitation
	}
	for _, u := range users {
		if u.Contact == in.Contact {
			return models.RegistrationRequest{}, conflict("contact already registered")
		}
		if u.Name == in.Name {
			return models.RegistrationRequest{}, conflict("name already taken")
		}
	}

	regs, err := store.ReadAll[models.RegistrationRequest](ctx, s.store, models.RegistrationRequestsCollection)
	if err != nil {
		return models.RegistrationRequest{}, err
	}
	for _, r := range regs {
		if r.Status != models.RequestPending {
			continue
		}
		if r.Contact == in.Contact {
			return models.RegistrationRequest{}, conflict("contact already pending approval")
		}
		if r.Name == in.Name {
			return models.RegistrationRequest{}, conflict("name already pending approval")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RegistrationRequest{}, err
	}
	reg := models.RegistrationRequest{
		ID:              s.ids.New("reg"),
		Name:            in.Name,
		Contact:         in.Contact,
		DepartmentName:  in.DepartmentName,
		InvitationCode:  in.InvitationCode,
		InvitedByUserID: inviter.ID,
		Status:          models.RequestPending,
		CreatedAt:       s.clock.Now(),
		PasswordHash:    string(hash),
	}
	regs = append(regs, reg)
	if err := s.store.WriteAll(ctx, models.RegistrationRequestsCollection, regs); err != nil {
		return models.RegistrationRequest{}, err
	}

	s.notifyAsync([]string{inviter.ID}, "New registration request",
		in.Name+" signed up with your invitation code", map[string]string{"registrationId": reg.ID})
	reg.PasswordHash = ""
	return reg, nil
}
