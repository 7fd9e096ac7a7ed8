// services/items.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"equiptrack/models"
	"equiptrack/store"
)

// DepartmentAll is the sentinel meaning "no department filter" in listing
// calls; any role may use it for read-only viewing.
const DepartmentAll = "all"

// pendingReservations sums the quantities of pending borrow requests,
// grouped by item. Recomputed on every inventory read, never stored.
func (s *Service) pendingReservations(ctx context.Context) (map[string]int, error) {
	reqs, err := store.ReadAll[models.BorrowRequestEntry](ctx, s.store, models.BorrowRequestsCollection)
	if err != nil {
		return nil, err
	}
	pending := make(map[string]int)
	for _, r := range reqs {
		if r.Status == models.RequestPending {
			pending[r.ItemID] += r.Quantity
		}
	}
	return pending, nil
}

func effectiveAvailable(it models.EquipmentItem, pending map[string]int) int {
	eff := it.AvailableQuantity - pending[it.ID]
	if eff < 0 {
		eff = 0
	}
	return eff
}

// decorateItem returns a read-only view of the item: availableQuantity is
// adjusted for pending reservations, pendingApprovalQuantity is surfaced,
// and history entries past their expected return date show as overdue.
func decorateItem(it models.EquipmentItem, pending map[string]int, now time.Time) models.EquipmentItem {
	it.PendingApprovalQuantity = pending[it.ID]
	it.AvailableQuantity = effectiveAvailable(it, pending)
	history := make([]models.BorrowHistoryEntry, len(it.BorrowHistory))
	copy(history, it.BorrowHistory)
	for i := range history {
		if history[i].Status == models.StatusBorrowed && now.After(history[i].ExpectedReturnDate) {
			history[i].Status = models.StatusOverdue
		}
	}
	it.BorrowHistory = history
	return it
}

// ItemFilter narrows an item listing. A zero filter means "the caller's own
// department" for everyone but the super admin.
type ItemFilter struct {
	DepartmentID string
	AllAvailable bool
}

// FilterItems applies the visibility rules of the listing surface. Pure.
func FilterItems(items []models.EquipmentItem, viewer models.AuthUser, f ItemFilter) []models.EquipmentItem {
	if f.AllAvailable {
		out := make([]models.EquipmentItem, 0, len(items))
		for _, it := range items {
			if it.AvailableQuantity > 0 {
				out = append(out, it)
			}
		}
		return out
	}
	dept := f.DepartmentID
	if dept == "" && viewer.Role != models.RoleSuperAdmin {
		dept = viewer.DepartmentID
	}
	if dept == "" || dept == DepartmentAll {
		return items
	}
	out := make([]models.EquipmentItem, 0, len(items))
	for _, it := range items {
		if it.DepartmentID == dept {
			out = append(out, it)
		}
	}
	return out
}

func (s *Service) ListItems(ctx context.Context, viewer models.AuthUser, f ItemFilter) ([]models.EquipmentItem, error) {
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return nil, err
	}
	pending, err := s.pendingReservations(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range items {
		items[i] = decorateItem(items[i], pending, now)
	}
	return FilterItems(items, viewer, f), nil
}

func (s *Service) GetItem(ctx context.Context, id string) (models.EquipmentItem, error) {
	items, idx, err := s.findItem(ctx, id)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	pending, err := s.pendingReservations(ctx)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	return decorateItem(items[idx], pending, s.clock.Now()), nil
}

// findItem reads the raw items snapshot and locates id in it. Mutating
// paths work on this snapshot so derived fields never get persisted.
func (s *Service) findItem(ctx context.Context, id string) ([]models.EquipmentItem, int, error) {
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		if items[i].ID == id {
			return items, i, nil
		}
	}
	return nil, 0, notFound("item not found")
}

type AddItemInput struct {
	Name             string `json:"name"`
	CategoryID       string `json:"categoryId"`
	DepartmentID     string `json:"departmentId"`
	TotalQuantity    int    `json:"totalQuantity"`
	RequiresApproval *bool  `json:"requiresApproval"`
	Image            string `json:"image"`
	ImageFull        string `json:"imageFull"`
}

func (s *Service) AddItem(ctx context.Context, in AddItemInput) (models.EquipmentItem, error) {
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	if in.TotalQuantity < 0 {
		in.TotalQuantity = 0
	}
	it := models.EquipmentItem{
		ID:                s.ids.New("item"),
		Name:              in.Name,
		CategoryID:        in.CategoryID,
		DepartmentID:      in.DepartmentID,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.TotalQuantity, // no history yet
		RequiresApproval:  in.RequiresApproval,
		Image:             in.Image,
		ImageFull:         in.ImageFull,
		BorrowHistory:     []models.BorrowHistoryEntry{},
	}
	items = append(items, it)
	if err := s.store.WriteAll(ctx, models.ItemsCollection, items); err != nil {
		return models.EquipmentItem{}, err
	}
	return it, nil
}

type UpdateItemInput struct {
	Name             *string `json:"name"`
	CategoryID       *string `json:"categoryId"`
	DepartmentID     *string `json:"departmentId"`
	TotalQuantity    *int    `json:"totalQuantity"`
	RequiresApproval *bool   `json:"requiresApproval"`
	Image            *string `json:"image"`
	ImageFull        *string `json:"imageFull"`
}

func (s *Service) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (models.EquipmentItem, error) {
	items, idx, err := s.findItem(ctx, id)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	it := items[idx]
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.CategoryID != nil {
		it.CategoryID = *in.CategoryID
	}
	if in.DepartmentID != nil {
		it.DepartmentID = *in.DepartmentID
	}
	if in.RequiresApproval != nil {
		it.RequiresApproval = in.RequiresApproval
	}
	if in.Image != nil {
		it.Image = *in.Image
	}
	if in.ImageFull != nil {
		it.ImageFull = *in.ImageFull
	}
	if in.TotalQuantity != nil {
		// Re-derive availability so the quantity invariant holds:
		// available = total - open history entries, clamped at 0.
		open := 0
		for _, h := range it.BorrowHistory {
			if h.Status.Open() {
				open++
			}
		}
		it.TotalQuantity = *in.TotalQuantity
		it.AvailableQuantity = it.TotalQuantity - open
		if it.AvailableQuantity < 0 {
			it.AvailableQuantity = 0
		}
	}
	items[idx] = it
	if err := s.store.WriteAll(ctx, models.ItemsCollection, items); err != nil {
		return models.EquipmentItem{}, err
	}
	return it, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	items, idx, err := s.findItem(ctx, id)
	if err != nil {
		return err
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.store.WriteAll(ctx, models.ItemsCollection, items)
}

// BorrowInput commits a direct loan. Quantity below 1 defaults to 1.
type BorrowInput struct {
	ItemID             string
	Borrower           models.PersonRef
	Operator           *models.PersonRef
	ExpectedReturnDate time.Time
	Quantity           int
	Photo              string
}

// BorrowItem is the direct-loan path. It checks raw availability only;
// pending reservations are not counted here, so a direct loan can take
// stock that the listing shows as reserved.
func (s *Service) BorrowItem(ctx context.Context, in BorrowInput) (models.EquipmentItem, error) {
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	items, idx, err := s.findItem(ctx, in.ItemID)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	it := items[idx]
	if it.AvailableQuantity < in.Quantity {
		return models.EquipmentItem{}, insufficientStock(
			fmt.Sprintf("insufficient stock: %d available", it.AvailableQuantity))
	}
	now := s.clock.Now()
	for i := 0; i < in.Quantity; i++ {
		it.BorrowHistory = append(it.BorrowHistory, models.BorrowHistoryEntry{
			ID:                 s.ids.New("hist"),
			ItemID:             it.ID,
			Borrower:           in.Borrower,
			Operator:           in.Operator,
			BorrowDate:         now,
			ExpectedReturnDate: in.ExpectedReturnDate,
			Status:             models.StatusBorrowed,
			Photo:              in.Photo,
		})
	}
	it.AvailableQuantity -= in.Quantity
	items[idx] = it
	if err := s.store.WriteAll(ctx, models.ItemsCollection, items); err != nil {
		return models.EquipmentItem{}, err
	}
	return it, nil
}

type ReturnInput struct {
	Photo     string
	Forced    bool
	AdminName string
}

// ReturnItem closes one history entry. Lateness is decided purely by
// comparing the return time with the expected return date; forcing only
// records who intervened.
func (s *Service) ReturnItem(ctx context.Context, itemID, entryID string, in ReturnInput) (models.EquipmentItem, error) {
	items, idx, err := s.findItem(ctx, itemID)
	if err != nil {
		return models.EquipmentItem{}, err
	}
	it := items[idx]
	hIdx := -1
	for i := range it.BorrowHistory {
		if it.BorrowHistory[i].ID == entryID {
			hIdx = i
			break
		}
	}
	if hIdx == -1 {
		return models.EquipmentItem{}, notFound("borrow history entry not found")
	}
	entry := it.BorrowHistory[hIdx]
	if !entry.Status.Open() {
		return models.EquipmentItem{}, invalidState("entry is not out on loan")
	}
	now := s.clock.Now()
	entry.ReturnDate = &now
	if now.After(entry.ExpectedReturnDate) {
		entry.Status = models.StatusReturnedLate
	} else {
		entry.Status = models.StatusReturned
	}
	if in.Photo != "" {
		entry.ReturnPhoto = in.Photo
	}
	if in.Forced && in.AdminName != "" {
		entry.ForcedReturnBy = in.AdminName
	}
	it.BorrowHistory[hIdx] = entry
	it.AvailableQuantity++
	items[idx] = it
	if err := s.store.WriteAll(ctx, models.ItemsCollection, items); err != nil {
		return models.EquipmentItem{}, err
	}
	return it, nil
}

// HistoryRecord is a flattened borrow history entry enriched with item
// metadata for listing.
type HistoryRecord struct {
	models.BorrowHistoryEntry
	ItemName     string `json:"itemName"`
	CategoryID   string `json:"itemCategory"`
	DepartmentID string `json:"departmentId"`
	ItemImage    string `json:"itemImage,omitempty"`
}

// ListHistory flattens borrow history across all items and narrows it by
// the viewer's role: super admin everything (optionally one department),
// admin / advanced user their own department, everyone else only entries
// where they are the recorded borrower (by id or phone).
func (s *Service) ListHistory(ctx context.Context, viewer models.AuthUser, departmentID string) ([]HistoryRecord, error) {
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	all := make([]HistoryRecord, 0)
	for _, it := range items {
		for _, h := range it.BorrowHistory {
			if h.Status == models.StatusBorrowed && now.After(h.ExpectedReturnDate) {
				h.Status = models.StatusOverdue
			}
			all = append(all, HistoryRecord{
				BorrowHistoryEntry: h,
				ItemName:           it.Name,
				CategoryID:         it.CategoryID,
				DepartmentID:       it.DepartmentID,
				ItemImage:          it.Image,
			})
		}
	}

	var filtered []HistoryRecord
	switch viewer.Role {
	case models.RoleSuperAdmin:
		filtered = all
		if departmentID != "" && departmentID != DepartmentAll {
			filtered = filtered[:0]
			for _, h := range all {
				if h.DepartmentID == departmentID {
					filtered = append(filtered, h)
				}
			}
		}
	case models.RoleAdmin, models.RoleAdvancedUser:
		if viewer.DepartmentID == "" {
			return []HistoryRecord{}, nil
		}
		for _, h := range all {
			if h.DepartmentID == viewer.DepartmentID {
				filtered = append(filtered, h)
			}
		}
	default:
		for _, h := range all {
			if h.Borrower.ID == viewer.ID || (viewer.Contact != "" && h.Borrower.Phone == viewer.Contact) {
				filtered = append(filtered, h)
			}
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].BorrowDate.After(filtered[j].BorrowDate)
	})
	return filtered, nil
}
