// services/users.go
package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"equiptrack/models"
	"equiptrack/store"
)

type UserFilter struct {
	DepartmentID string
}

// FilterUsers narrows the list per the caller's role. SuperAdmin is
// unrestricted; everyone else defaults to their own department. An explicit
// department filter (or the "all" sentinel) permits cross-department viewing,
// read-only.
func FilterUsers(users []models.User, caller models.AuthUser, f UserFilter) []models.User {
	dept := f.DepartmentID
	if caller.Role != models.RoleSuperAdmin && dept == "" {
		dept = caller.DepartmentID
	}
	if dept == "" || dept == DepartmentAll {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.DepartmentID == dept {
			out = append(out, u)
		}
	}
	return out
}

func (s *Service) ListUsers(ctx context.Context, caller models.AuthUser, f UserFilter) ([]models.User, error) {
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return nil, err
	}
	users = FilterUsers(users, caller, f)
	for i := range users {
		users[i] = users[i].Redacted()
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Redacted(), nil
		}
	}
	return models.User{}, notFound("user not found")
}

type AddUserInput struct {
	Name           string      `json:"name"`
	Contact        string      `json:"contact"`
	DepartmentID   string      `json:"departmentId"`
	Role           models.Role `json:"role"`
	Password       string      `json:"password"`
	InvitationCode string      `json:"invitationCode"`
}

// AddUser creates an account. The caller must outrank the new account's role.
func (s *Service) AddUser(ctx context.Context, caller models.AuthUser, in AddUserInput) (models.User, error) {
	if !in.Role.Valid() {
		return models.User{}, invalidState("unknown role")
	}
	if !models.CanManage(caller.Role, in.Role) {
		return models.User{}, forbidden("cannot create an account at or above your rank")
	}
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Contact == in.Contact {
			return models.User{}, conflict("contact already registered")
		}
		if in.InvitationCode != "" && u.InvitationCode == in.InvitationCode {
			return models.User{}, conflict("invitation code already in use")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:             s.ids.New("user"),
		Name:           in.Name,
		Contact:        in.Contact,
		DepartmentID:   in.DepartmentID,
		Role:           in.Role,
		Status:         models.UserActive,
		InvitationCode: in.InvitationCode,
		PasswordHash:   string(hash),
	}
	users = append(users, user)
	if err := s.store.WriteAll(ctx, models.UsersCollection, users); err != nil {
		return models.User{}, err
	}
	return user.Redacted(), nil
}

type UpdateUserInput struct {
	Name           *string      `json:"name"`
	Contact        *string      `json:"contact"`
	DepartmentID   *string      `json:"departmentId"`
	Role           *models.Role `json:"role"`
	Status         *string      `json:"status"`
	Password       *string      `json:"password"`
	InvitationCode *string      `json:"invitationCode"`
}

// UpdateUser requires the caller to outrank the target, both before and
// after a role change.
func (s *Service) UpdateUser(ctx context.Context, caller models.AuthUser, id string, in UpdateUserInput) (models.User, error) {
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.User{}, notFound("user not found")
	}
	user := users[idx]
	if caller.ID != id && !models.CanManage(caller.Role, user.Role) {
		return models.User{}, forbidden("cannot manage an account at or above your rank")
	}
	if in.Role != nil && *in.Role != user.Role {
		if !in.Role.Valid() {
			return models.User{}, invalidState("unknown role")
		}
		if !models.CanManage(caller.Role, *in.Role) {
			return models.User{}, forbidden("cannot grant a role at or above your rank")
		}
		user.Role = *in.Role
	}
	if in.Contact != nil && *in.Contact != user.Contact {
		for _, u := range users {
			if u.ID != id && u.Contact == *in.Contact {
				return models.User{}, conflict("contact already registered")
			}
		}
		user.Contact = *in.Contact
	}
	if in.InvitationCode != nil && *in.InvitationCode != user.InvitationCode {
		if *in.InvitationCode != "" {
			for _, u := range users {
				if u.ID != id && u.InvitationCode == *in.InvitationCode {
					return models.User{}, conflict("invitation code already in use")
				}
			}
		}
		user.InvitationCode = *in.InvitationCode
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.DepartmentID != nil {
		user.DepartmentID = *in.DepartmentID
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = string(hash)
	}
	users[idx] = user
	if err := s.store.WriteAll(ctx, models.UsersCollection, users); err != nil {
		return models.User{}, err
	}
	return user.Redacted(), nil
}

// DeleteUser removes an account. Strictly hierarchy-gated, no self-delete.
func (s *Service) DeleteUser(ctx context.Context, caller models.AuthUser, id string) (models.User, error) {
	if caller.ID == id {
		return models.User{}, forbidden("cannot delete your own account")
	}
	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.User{}, notFound("user not found")
	}
	victim := users[idx]
	if !models.CanManage(caller.Role, victim.Role) {
		return models.User{}, forbidden("cannot delete an account at or above your rank")
	}
	users = append(users[:idx], users[idx+1:]...)
	if err := s.store.WriteAll(ctx, models.UsersCollection, users); err != nil {
		return models.User{}, err
	}
	return victim.Redacted(), nil
}
