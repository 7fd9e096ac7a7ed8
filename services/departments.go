// services/departments.go
package services

import (
	"context"
	"sort"
	"strings"

	"equiptrack/models"
	"equiptrack/store"
)

// ListDepartments returns the tree flattened, sorted by (order, name), with
// the default approval policy made explicit in the view. The stored records
// keep their unset fields: defaults are never materialized.
func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return nil, err
	}
	t := true
	for i := range depts {
		if depts[i].RequiresApproval == nil {
			depts[i].RequiresApproval = &t
		}
	}
	sortDepartments(depts)
	return depts, nil
}

func sortDepartments(depts []models.Department) {
	sort.SliceStable(depts, func(i, j int) bool {
		if depts[i].Order != depts[j].Order {
			return depts[i].Order < depts[j].Order
		}
		return strings.Compare(depts[i].Name, depts[j].Name) < 0
	})
}

type AddDepartmentInput struct {
	Name             string `json:"name"`
	ParentID         string `json:"parentId"`
	Order            int    `json:"order"`
	RequiresApproval *bool  `json:"requiresApproval"`
}

func (s *Service) AddDepartment(ctx context.Context, in AddDepartmentInput) (models.Department, error) {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return models.Department{}, err
	}
	for _, d := range depts {
		if d.Name == in.Name && d.ParentID == in.ParentID {
			return models.Department{}, conflict("department name already exists")
		}
	}
	requires := in.RequiresApproval
	if requires == nil {
		t := true
		requires = &t
	}
	dept := models.Department{
		ID:               s.ids.New("dept"),
		Name:             in.Name,
		ParentID:         in.ParentID,
		Order:            in.Order,
		RequiresApproval: requires,
	}
	depts = append(depts, dept)
	if err := s.store.WriteAll(ctx, models.DepartmentsCollection, depts); err != nil {
		return models.Department{}, err
	}
	return dept, nil
}

type UpdateDepartmentInput struct {
	Name             *string `json:"name"`
	ParentID         *string `json:"parentId"`
	Order            *int    `json:"order"`
	RequiresApproval *bool   `json:"requiresApproval"`
}

// UpdateDepartment also resets item-level approval overrides when the
// department default changes, so those items fall back to inheriting.
func (s *Service) UpdateDepartment(ctx context.Context, id string, in UpdateDepartmentInput) (models.Department, error) {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return models.Department{}, err
	}
	idx := -1
	for i := range depts {
		if depts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Department{}, notFound("department not found")
	}
	dept := depts[idx]
	if in.Name != nil && *in.Name != dept.Name {
		parent := dept.ParentID
		if in.ParentID != nil {
			parent = *in.ParentID
		}
		for _, d := range depts {
			if d.ID != id && d.Name == *in.Name && d.ParentID == parent {
				return models.Department{}, conflict("department name already exists")
			}
		}
		dept.Name = *in.Name
	}
	if in.ParentID != nil {
		dept.ParentID = *in.ParentID
	}
	if in.Order != nil {
		dept.Order = *in.Order
	}
	if in.RequiresApproval != nil {
		dept.RequiresApproval = in.RequiresApproval
	}
	depts[idx] = dept
	if err := s.store.WriteAll(ctx, models.DepartmentsCollection, depts); err != nil {
		return models.Department{}, err
	}

	if in.RequiresApproval != nil {
		if err := s.clearItemOverrides(ctx, id); err != nil {
			return models.Department{}, err
		}
	}
	return dept, nil
}

// clearItemOverrides drops the requiresApproval override from every item in
// the department so the new department default applies.
func (s *Service) clearItemOverrides(ctx context.Context, departmentID string) error {
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return err
	}
	changed := false
	for i := range items {
		if items[i].DepartmentID == departmentID && items[i].RequiresApproval != nil {
			items[i].RequiresApproval = nil
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.store.WriteAll(ctx, models.ItemsCollection, items)
}

// SyncApprovalPolicies re-applies every department's approval default over
// its items, clearing stale item overrides. Used by the syncfix command.
func (s *Service) SyncApprovalPolicies(ctx context.Context) (int, error) {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range depts {
		if d.RequiresApproval == nil {
			continue
		}
		if err := s.clearItemOverrides(ctx, d.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type StructureUpdate struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Order    int    `json:"order"`
}

// UpdateDepartmentStructure applies a batch of tree moves/reorders from the
// drag-and-drop UI in one write.
func (s *Service) UpdateDepartmentStructure(ctx context.Context, updates []StructureUpdate) ([]models.Department, error) {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return nil, err
	}
	changed := false
	for _, u := range updates {
		for i := range depts {
			if depts[i].ID != u.ID {
				continue
			}
			if depts[i].ParentID != u.ParentID || depts[i].Order != u.Order {
				depts[i].ParentID = u.ParentID
				depts[i].Order = u.Order
				changed = true
			}
			break
		}
	}
	if changed {
		if err := s.store.WriteAll(ctx, models.DepartmentsCollection, depts); err != nil {
			return nil, err
		}
	}
	sortDepartments(depts)
	return depts, nil
}

// DeleteDepartment cascades: users and items of the department go with it.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return err
	}
	next := depts[:0]
	for _, d := range depts {
		if d.ID != id {
			next = append(next, d)
		}
	}
	if len(next) == len(depts) {
		return notFound("department not found")
	}
	if err := s.store.WriteAll(ctx, models.DepartmentsCollection, next); err != nil {
		return err
	}

	users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
	if err != nil {
		return err
	}
	remaining := users[:0]
	for _, u := range users {
		if u.DepartmentID != id {
			remaining = append(remaining, u)
		}
	}
	if err := s.store.WriteAll(ctx, models.UsersCollection, remaining); err != nil {
		return err
	}

	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return err
	}
	keep := items[:0]
	for _, it := range items {
		if it.DepartmentID != id {
			keep = append(keep, it)
		}
	}
	return s.store.WriteAll(ctx, models.ItemsCollection, keep)
}
