// services/registration.go
package services

import (
	"context"
	"sort"

	"equiptrack/models"
	"equiptrack/store"
)

// ListRegistrationRequests shows pending signups the caller may review.
// SuperAdmin sees all; Admin/AdvancedUser see only signups carrying their
// own invitation code or invited-by id. Everyone else sees nothing.
func (s *Service) ListRegistrationRequests(ctx context.Context, caller models.AuthUser) ([]models.RegistrationRequest, error) {
	if !caller.Role.CanManageItems() {
		return []models.RegistrationRequest{}, nil
	}
	regs, err := store.ReadAll[models.RegistrationRequest](ctx, s.store, models.RegistrationRequestsCollection)
	if err != nil {
		return nil, err
	}

	var code string
	if caller.Role != models.RoleSuperAdmin {
		users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.ID == caller.ID {
				code = u.InvitationCode
				break
			}
		}
	}

	out := make([]models.RegistrationRequest, 0, len(regs))
	for _, r := range regs {
		if r.Status != models.RequestPending {
			continue
		}
		if caller.Role != models.RoleSuperAdmin &&
			r.InvitedByUserID != caller.ID && (code == "" || r.InvitationCode != code) {
			continue
		}
		r.PasswordHash = ""
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ApproveRegistration turns a pending signup into a RegularUser account and
// removes the request from the queue. The department is resolved by name;
// an unknown name leaves the account without a department.
func (s *Service) ApproveRegistration(ctx context.Context, caller models.AuthUser, id string) (models.User, error) {
	if !caller.Role.CanManageItems() {
		return models.User{}, forbidden("not allowed to review registrations")
	}
	regs, err := store.ReadAll[models.RegistrationRequest](ctx, s.store, models.RegistrationRequestsCollection)
	if err != nil {
		return models.User{}, err
	}
	idx := -1
	for i := range regs {
		if regs[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.User{}, notFound("registration request not found")
	}
	reg := regs[idx]
	if reg.Status != models.RequestPending {
		return models.User{}, alreadyProcessed("registration request already processed")
	}

	deptID := ""
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, d := range depts {
		if d.Name == reg.DepartmentName {
			deptID = d.ID
			break
		}
	}

	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Contact == reg.Contact {
			return models.User{}, conflict("contact already registered")
		}
	}
	user := models.User{
		ID:           s.ids.New("user"),
		Name:         reg.Name,
		Contact:      reg.Contact,
		DepartmentID: deptID,
		Role:         models.RoleRegularUser,
		Status:       models.UserActive,
		PasswordHash: reg.PasswordHash,
	}
	users = append(users, user)
	if err := s.store.WriteAll(ctx, models.UsersCollection, users); err != nil {
		return models.User{}, err
	}

	regs = append(regs[:idx], regs[idx+1:]...)
	if err := s.store.WriteAll(ctx, models.RegistrationRequestsCollection, regs); err != nil {
		return models.User{}, err
	}
	return user.Redacted(), nil
}

// RejectRegistration marks the signup rejected. The record stays so the
// applicant gets a definite answer at login instead of silence.
func (s *Service) RejectRegistration(ctx context.Context, caller models.AuthUser, id string) error {
	if !caller.Role.CanManageItems() {
		return forbidden("not allowed to review registrations")
	}
	regs, err := store.ReadAll[models.RegistrationRequest](ctx, s.store, models.RegistrationRequestsCollection)
	if err != nil {
		return err
	}
	for i := range regs {
		if regs[i].ID != id {
			continue
		}
		if regs[i].Status != models.RequestPending {
			return alreadyProcessed("registration request already processed")
		}
		regs[i].Status = models.RequestRejected
		return s.store.WriteAll(ctx, models.RegistrationRequestsCollection, regs)
	}
	return notFound("registration request not found")
}
