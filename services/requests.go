// services/requests.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"equiptrack/models"
	"equiptrack/store"

	"go.uber.org/zap"
)

// systemOperator is recorded on loans committed by the auto-approval path.
var systemOperator = models.PersonRef{Name: "System (Auto-Approved)"}

type CreateRequestInput struct {
	ItemID             string
	Borrower           models.PersonRef
	Applicant          models.PersonRef
	ExpectedReturnDate time.Time
	Photo              string
	Quantity           int
}

// resolveRequiresApproval implements the three-way policy resolution
// item.requiresApproval ?? department.requiresApproval ?? true, computed at
// read time so later department changes keep affecting non-overriding items.
func (s *Service) resolveRequiresApproval(ctx context.Context, it models.EquipmentItem) (bool, error) {
	if it.RequiresApproval != nil {
		return *it.RequiresApproval, nil
	}
	depts, err := store.ReadAll[models.Department](ctx, s.store, models.DepartmentsCollection)
	if err != nil {
		return true, err
	}
	for _, d := range depts {
		if d.ID == it.DepartmentID {
			if d.RequiresApproval != nil {
				return *d.RequiresApproval, nil
			}
			break
		}
	}
	return true, nil
}

// CreateBorrowRequest checks the reservation-adjusted availability, then
// either commits immediately (policy says no approval needed) or parks a
// pending request that virtually reserves the quantity until reviewed.
func (s *Service) CreateBorrowRequest(ctx context.Context, in CreateRequestInput) (models.BorrowRequestEntry, error) {
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	items, idx, err := s.findItem(ctx, in.ItemID)
	if err != nil {
		return models.BorrowRequestEntry{}, err
	}
	it := items[idx]
	pending, err := s.pendingReservations(ctx)
	if err != nil {
		return models.BorrowRequestEntry{}, err
	}
	if eff := effectiveAvailable(it, pending); eff < in.Quantity {
		return models.BorrowRequestEntry{}, insufficientStock(
			fmt.Sprintf("insufficient stock: %d available", eff))
	}

	requires, err := s.resolveRequiresApproval(ctx, it)
	if err != nil {
		return models.BorrowRequestEntry{}, err
	}
	now := s.clock.Now()

	if !requires {
		if _, err := s.BorrowItem(ctx, BorrowInput{
			ItemID:             in.ItemID,
			Borrower:           in.Borrower,
			Operator:           &systemOperator,
			ExpectedReturnDate: in.ExpectedReturnDate,
			Quantity:           in.Quantity,
			Photo:              in.Photo,
		}); err != nil {
			return models.BorrowRequestEntry{}, err
		}
		// Synthetic approved record, for audit parity with manual review.
		reviewer := models.PersonRef{Name: "System"}
		entry := models.BorrowRequestEntry{
			ID:                 s.ids.New("brwreq"),
			ItemID:             it.ID,
			ItemDepartmentID:   it.DepartmentID,
			ItemName:           it.Name,
			ItemImage:          it.Image,
			Borrower:           in.Borrower,
			Applicant:          in.Applicant,
			Quantity:           in.Quantity,
			ExpectedReturnDate: in.ExpectedReturnDate,
			Photo:              in.Photo,
			Status:             models.RequestApproved,
			CreatedAt:          now,
			ReviewedAt:         &now,
			Reviewer:           &reviewer,
			Remark:             "auto-approved",
		}
		if err := s.appendRequest(ctx, entry); err != nil {
			return models.BorrowRequestEntry{}, err
		}
		return entry, nil
	}

	entry := models.BorrowRequestEntry{
		ID:                 s.ids.New("brwreq"),
		ItemID:             it.ID,
		ItemDepartmentID:   it.DepartmentID,
		ItemName:           it.Name,
		ItemImage:          it.Image,
		Borrower:           in.Borrower,
		Applicant:          in.Applicant,
		Quantity:           in.Quantity,
		ExpectedReturnDate: in.ExpectedReturnDate,
		Photo:              in.Photo,
		Status:             models.RequestPending,
		CreatedAt:          now,
	}
	if err := s.appendRequest(ctx, entry); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	s.notifyAdmins("New borrow request",
		fmt.Sprintf("%s requests %s x%d", in.Applicant.Name, it.Name, in.Quantity),
		map[string]string{"type": "borrow_request", "requestId": entry.ID})
	return entry, nil
}

func (s *Service) appendRequest(ctx context.Context, entry models.BorrowRequestEntry) error {
	reqs, err := store.ReadAll[models.BorrowRequestEntry](ctx, s.store, models.BorrowRequestsCollection)
	if err != nil {
		return err
	}
	reqs = append(reqs, entry)
	return s.store.WriteAll(ctx, models.BorrowRequestsCollection, reqs)
}

// ListMyBorrowRequests returns requests the caller applied for or is listed
// on as borrower (matched by id or phone), newest first.
func (s *Service) ListMyBorrowRequests(ctx context.Context, viewer models.AuthUser) ([]models.BorrowRequestEntry, error) {
	reqs, err := store.ReadAll[models.BorrowRequestEntry](ctx, s.store, models.BorrowRequestsCollection)
	if err != nil {
		return nil, err
	}
	mine := make([]models.BorrowRequestEntry, 0)
	for _, r := range reqs {
		switch {
		case r.Applicant.ID != "" && r.Applicant.ID == viewer.ID:
		case r.Borrower.ID != "" && r.Borrower.ID == viewer.ID:
		case viewer.Contact != "" && r.Borrower.Phone == viewer.Contact:
		default:
			continue
		}
		mine = append(mine, r)
	}
	if err := s.populateItemDetails(ctx, mine); err != nil {
		return nil, err
	}
	sortRequestsNewestFirst(mine)
	return mine, nil
}

// ListReviewBorrowRequests is the review queue. Super admin sees all,
// admin / advanced user only their own department's requests, everyone else
// nothing.
func (s *Service) ListReviewBorrowRequests(ctx context.Context, viewer models.AuthUser, status models.RequestStatus) ([]models.BorrowRequestEntry, error) {
	if status == "" {
		status = models.RequestPending
	}
	reqs, err := store.ReadAll[models.BorrowRequestEntry](ctx, s.store, models.BorrowRequestsCollection)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.BorrowRequestEntry, 0)
	for _, r := range reqs {
		if r.Status != status {
			continue
		}
		switch viewer.Role {
		case models.RoleSuperAdmin:
		case models.RoleAdmin, models.RoleAdvancedUser:
			if viewer.DepartmentID == "" || r.ItemDepartmentID != viewer.DepartmentID {
				continue
			}
		default:
			continue
		}
		filtered = append(filtered, r)
	}
	if err := s.populateItemDetails(ctx, filtered); err != nil {
		return nil, err
	}
	sortRequestsNewestFirst(filtered)
	return filtered, nil
}

// populateItemDetails refreshes display name/image from the current item
// records, so renames show up in old requests.
func (s *Service) populateItemDetails(ctx context.Context, reqs []models.BorrowRequestEntry) error {
	if len(reqs) == 0 {
		return nil
	}
	items, err := store.ReadAll[models.EquipmentItem](ctx, s.store, models.ItemsCollection)
	if err != nil {
		return err
	}
	byID := make(map[string]models.EquipmentItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for i := range reqs {
		if it, ok := byID[reqs[i].ItemID]; ok {
			reqs[i].ItemName = it.Name
			reqs[i].ItemImage = it.Image
		}
	}
	return nil
}

func sortRequestsNewestFirst(reqs []models.BorrowRequestEntry) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

// authorizeReview enforces the review rules: super admin anywhere,
// admin / advanced user only within their own department.
func authorizeReview(reviewer models.AuthUser, req models.BorrowRequestEntry) error {
	if reviewer.Role == models.RoleSuperAdmin {
		return nil
	}
	if reviewer.Role != models.RoleAdmin && reviewer.Role != models.RoleAdvancedUser {
		return forbidden("role may not review borrow requests")
	}
	if reviewer.DepartmentID == "" || reviewer.DepartmentID != req.ItemDepartmentID {
		return forbidden("request belongs to another department")
	}
	return nil
}

// ApproveBorrowRequest commits the reserved loan. The request must still be
// pending; approving twice fails with AlreadyProcessed and cannot double
// the inventory mutation.
func (s *Service) ApproveBorrowRequest(ctx context.Context, reviewer models.AuthUser, requestID, remark string) (models.BorrowRequestEntry, error) {
	reqs, idx, err := s.findRequest(ctx, requestID)
	if err != nil {
		return models.BorrowRequestEntry{}, err
	}
	req := reqs[idx]
	if req.Status != models.RequestPending {
		return models.BorrowRequestEntry{}, alreadyProcessed("request already processed")
	}
	if err := authorizeReview(reviewer, req); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	reviewerRef := models.PersonRef{ID: reviewer.ID, Name: reviewer.Name, Phone: reviewer.Contact}
	if _, err := s.BorrowItem(ctx, BorrowInput{
		ItemID:             req.ItemID,
		Borrower:           req.Borrower,
		Operator:           &reviewerRef,
		ExpectedReturnDate: req.ExpectedReturnDate,
		Quantity:           req.Quantity,
		Photo:              req.Photo,
	}); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	now := s.clock.Now()
	req.Status = models.RequestApproved
	req.ReviewedAt = &now
	req.Reviewer = &reviewerRef
	req.Remark = remark
	reqs[idx] = req
	if err := s.store.WriteAll(ctx, models.BorrowRequestsCollection, reqs); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	if req.Applicant.ID != "" {
		s.notifyAsync([]string{req.Applicant.ID}, "Borrow request approved",
			fmt.Sprintf("Your request for %s was approved by %s", req.ItemName, reviewer.Name),
			map[string]string{"type": "borrow_approved", "requestId": req.ID})
	}
	return req, nil
}

// RejectBorrowRequest releases the virtual reservation: no inventory
// mutation happens, the pending quantity simply stops being counted.
func (s *Service) RejectBorrowRequest(ctx context.Context, reviewer models.AuthUser, requestID, remark string) (models.BorrowRequestEntry, error) {
	reqs, idx, err := s.findRequest(ctx, requestID)
	if err != nil {
		return models.BorrowRequestEntry{}, err
	}
	req := reqs[idx]
	if req.Status != models.RequestPending {
		return models.BorrowRequestEntry{}, alreadyProcessed("request already processed")
	}
	if err := authorizeReview(reviewer, req); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	now := s.clock.Now()
	reviewerRef := models.PersonRef{ID: reviewer.ID, Name: reviewer.Name, Phone: reviewer.Contact}
	req.Status = models.RequestRejected
	req.ReviewedAt = &now
	req.Reviewer = &reviewerRef
	req.Remark = remark
	reqs[idx] = req
	if err := s.store.WriteAll(ctx, models.BorrowRequestsCollection, reqs); err != nil {
		return models.BorrowRequestEntry{}, err
	}

	if req.Applicant.ID != "" {
		s.notifyAsync([]string{req.Applicant.ID}, "Borrow request rejected",
			fmt.Sprintf("Your request for %s was rejected. Reason: %s", req.ItemName, orNone(remark)),
			map[string]string{"type": "borrow_rejected", "requestId": req.ID})
	}
	return req, nil
}

func (s *Service) findRequest(ctx context.Context, id string) ([]models.BorrowRequestEntry, int, error) {
	reqs, err := store.ReadAll[models.BorrowRequestEntry](ctx, s.store, models.BorrowRequestsCollection)
	if err != nil {
		return nil, 0, err
	}
	for i := range reqs {
		if reqs[i].ID == id {
			return reqs, i, nil
		}
	}
	return nil, 0, notFound("borrow request not found")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// notifyAdmins fans out to every admin and super admin, detached from the
// calling operation.
func (s *Service) notifyAdmins(title, body string, data map[string]string) {
	go func() {
		ctx := context.Background()
		users, err := store.ReadAll[models.User](ctx, s.store, models.UsersCollection)
		if err != nil {
			s.logger.Warn("notify admins: reading users failed", zap.Error(err))
			return
		}
		var ids []string
		for _, u := range users {
			if u.Role == models.RoleSuperAdmin || u.Role == models.RoleAdmin {
				ids = append(ids, u.ID)
			}
		}
		if len(ids) > 0 {
			s.notifier.Notify(ctx, ids, title, body, data)
		}
	}()
}

// notifyAsync fires a best-effort notification without blocking or failing
// the calling operation.
func (s *Service) notifyAsync(recipientIDs []string, title, body string, data map[string]string) {
	go s.notifier.Notify(context.Background(), recipientIDs, title, body, data)
}
