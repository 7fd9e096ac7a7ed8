// services/requests_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiptrack/models"
)

func seedApprovalWorld(t *testing.T, e *testEnv, itemRequires, deptRequires *bool) {
	t.Helper()
	e.seed(t, models.DepartmentsCollection, []models.Department{
		{ID: "dept_tech", Name: "Technology", RequiresApproval: deptRequires},
	})
	e.seed(t, models.ItemsCollection, []models.EquipmentItem{{
		ID: "item_projector", Name: "Projector", DepartmentID: "dept_tech",
		TotalQuantity: 5, AvailableQuantity: 5,
		RequiresApproval: itemRequires,
		BorrowHistory:    []models.BorrowHistoryEntry{},
	}})
}

func createReq(t *testing.T, e *testEnv, qty int) models.BorrowRequestEntry {
	t.Helper()
	req, err := e.svc.CreateBorrowRequest(context.Background(), CreateRequestInput{
		ItemID:             "item_projector",
		Borrower:           models.PersonRef{ID: "user_reg", Name: "Riley", Phone: "10002"},
		Applicant:          models.PersonRef{ID: "user_reg", Name: "Riley", Phone: "10002"},
		ExpectedReturnDate: e.clock.Now().Add(72 * time.Hour),
		Quantity:           qty,
	})
	require.NoError(t, err)
	return req
}

func TestCreateBorrowRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("item needing approval parks a pending request", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		e.seed(t, models.UsersCollection, []models.User{
			{ID: "user_adm", Role: models.RoleAdmin},
			{ID: "user_reg2", Role: models.RoleRegularUser},
		})

		req := createReq(t, e, 2)
		assert.Equal(t, models.RequestPending, req.Status)

		// 库存未动，只是预占
		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Equal(t, 5, items[0].AvailableQuantity)
		assert.Empty(t, items[0].BorrowHistory)

		it, err := e.svc.GetItem(ctx, "item_projector")
		require.NoError(t, err)
		assert.Equal(t, 3, it.AvailableQuantity)

		pushes := e.notifier.Wait(1, time.Second)
		require.Len(t, pushes, 1)
		assert.Equal(t, []string{"user_adm"}, pushes[0].Recipients)
	})

	t.Run("no-approval policy commits immediately with a synthetic record", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(false), nil)

		req := createReq(t, e, 2)
		assert.Equal(t, models.RequestApproved, req.Status)
		require.NotNil(t, req.Reviewer)
		assert.Equal(t, "System", req.Reviewer.Name)
		assert.Equal(t, "auto-approved", req.Remark)

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Equal(t, 3, items[0].AvailableQuantity)
		require.Len(t, items[0].BorrowHistory, 2)
		require.NotNil(t, items[0].BorrowHistory[0].Operator)
		assert.Equal(t, "System (Auto-Approved)", items[0].BorrowHistory[0].Operator.Name)
	})

	t.Run("policy falls back item to department to true", func(t *testing.T) {
		cases := []struct {
			name         string
			itemRequires *bool
			deptRequires *bool
			want         models.RequestStatus
		}{
			{"item override wins", boolPtr(false), boolPtr(true), models.RequestApproved},
			{"department default applies", nil, boolPtr(false), models.RequestApproved},
			{"both unset defaults to approval", nil, nil, models.RequestPending},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				e := newTestEnv(t)
				seedApprovalWorld(t, e, tc.itemRequires, tc.deptRequires)
				req := createReq(t, e, 1)
				assert.Equal(t, tc.want, req.Status)
			})
		}
	})

	t.Run("effective availability gates new requests", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)

		createReq(t, e, 3)
		_, err := e.svc.CreateBorrowRequest(ctx, CreateRequestInput{
			ItemID:             "item_projector",
			Borrower:           models.PersonRef{ID: "user_reg"},
			Applicant:          models.PersonRef{ID: "user_reg"},
			ExpectedReturnDate: e.clock.Now().Add(time.Hour),
			Quantity:           3,
		})
		assert.Equal(t, KindInsufficientStock, KindOf(err))
	})
}

func TestApproveBorrowRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("approval commits the loan and records the reviewer", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 2)

		got, err := e.svc.ApproveBorrowRequest(ctx, deptAdmin("dept_tech"), req.ID, "ok")
		require.NoError(t, err)
		assert.Equal(t, models.RequestApproved, got.Status)
		require.NotNil(t, got.Reviewer)
		assert.Equal(t, "user_adm", got.Reviewer.ID)
		require.NotNil(t, got.ReviewedAt)

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Equal(t, 3, items[0].AvailableQuantity)
		require.Len(t, items[0].BorrowHistory, 2)
		assert.Equal(t, "user_adm", items[0].BorrowHistory[0].Operator.ID)
	})

	t.Run("approving twice is AlreadyProcessed and mutates nothing more", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 2)

		_, err := e.svc.ApproveBorrowRequest(ctx, superAdmin(), req.ID, "")
		require.NoError(t, err)
		_, err = e.svc.ApproveBorrowRequest(ctx, superAdmin(), req.ID, "")
		assert.Equal(t, KindAlreadyProcessed, KindOf(err))

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Equal(t, 3, items[0].AvailableQuantity)
		assert.Len(t, items[0].BorrowHistory, 2)
	})

	t.Run("cross-department admin is refused", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 1)

		_, err := e.svc.ApproveBorrowRequest(ctx, deptAdmin("dept_ops"), req.ID, "")
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("regular user may not review", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 1)

		_, err := e.svc.ApproveBorrowRequest(ctx, regularUser("dept_tech"), req.ID, "")
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("approval can fail on raw stock taken by a direct loan", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 3)

		// 审批前库存被直借抽走
		_, err := e.svc.BorrowItem(ctx, BorrowInput{
			ItemID:             "item_projector",
			Borrower:           models.PersonRef{ID: "user_other"},
			ExpectedReturnDate: e.clock.Now().Add(time.Hour),
			Quantity:           4,
		})
		require.NoError(t, err)

		_, err = e.svc.ApproveBorrowRequest(ctx, superAdmin(), req.ID, "")
		assert.Equal(t, KindInsufficientStock, KindOf(err))

		// 请求保持 pending，可改判
		var reqs []models.BorrowRequestEntry
		require.NoError(t, e.store.ReadAll(ctx, models.BorrowRequestsCollection, &reqs))
		assert.Equal(t, models.RequestPending, reqs[0].Status)
	})
}

func TestRejectBorrowRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("rejecting releases the reservation without touching stock", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 3)

		it, err := e.svc.GetItem(ctx, "item_projector")
		require.NoError(t, err)
		assert.Equal(t, 2, it.AvailableQuantity)

		got, err := e.svc.RejectBorrowRequest(ctx, superAdmin(), req.ID, "not now")
		require.NoError(t, err)
		assert.Equal(t, models.RequestRejected, got.Status)
		assert.Equal(t, "not now", got.Remark)

		// 预占释放，可见数回满
		it, err = e.svc.GetItem(ctx, "item_projector")
		require.NoError(t, err)
		assert.Equal(t, 5, it.AvailableQuantity)

		var items []models.EquipmentItem
		require.NoError(t, e.store.ReadAll(ctx, models.ItemsCollection, &items))
		assert.Empty(t, items[0].BorrowHistory)
	})

	t.Run("rejecting twice is AlreadyProcessed", func(t *testing.T) {
		e := newTestEnv(t)
		seedApprovalWorld(t, e, boolPtr(true), nil)
		req := createReq(t, e, 1)

		_, err := e.svc.RejectBorrowRequest(ctx, superAdmin(), req.ID, "")
		require.NoError(t, err)
		_, err = e.svc.RejectBorrowRequest(ctx, superAdmin(), req.ID, "")
		assert.Equal(t, KindAlreadyProcessed, KindOf(err))
	})
}

func TestRequestListings(t *testing.T) {
	ctx := context.Background()

	seedQueue := func(t *testing.T, e *testEnv) {
		t.Helper()
		now := e.clock.Now()
		e.seed(t, models.ItemsCollection, []models.EquipmentItem{
			{ID: "item_a", Name: "Projector Mk2", DepartmentID: "dept_tech", TotalQuantity: 3, AvailableQuantity: 3},
		})
		e.seed(t, models.BorrowRequestsCollection, []models.BorrowRequestEntry{
			{ID: "brwreq_1", ItemID: "item_a", ItemDepartmentID: "dept_tech", Quantity: 1,
				Applicant: models.PersonRef{ID: "user_reg"}, Borrower: models.PersonRef{ID: "user_reg"},
				Status: models.RequestPending, CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "brwreq_2", ItemID: "item_a", ItemDepartmentID: "dept_tech", Quantity: 1,
				Applicant: models.PersonRef{ID: "user_other"}, Borrower: models.PersonRef{Phone: "10002"},
				Status: models.RequestPending, CreatedAt: now.Add(-1 * time.Hour)},
			{ID: "brwreq_3", ItemID: "item_a", ItemDepartmentID: "dept_ops", Quantity: 1,
				Applicant: models.PersonRef{ID: "user_other"}, Borrower: models.PersonRef{ID: "user_other"},
				Status: models.RequestPending, CreatedAt: now},
			{ID: "brwreq_4", ItemID: "item_a", ItemDepartmentID: "dept_tech", Quantity: 1,
				Applicant: models.PersonRef{ID: "user_reg"}, Borrower: models.PersonRef{ID: "user_reg"},
				Status: models.RequestApproved, CreatedAt: now},
		})
	}

	t.Run("my requests match applicant id, borrower id or phone", func(t *testing.T) {
		e := newTestEnv(t)
		seedQueue(t, e)
		got, err := e.svc.ListMyBorrowRequests(ctx, regularUser("dept_tech"))
		require.NoError(t, err)
		require.Len(t, got, 3)
		// 最新在前，且展示字段随当前物品名刷新
		assert.Equal(t, "brwreq_4", got[0].ID)
		assert.Equal(t, "Projector Mk2", got[0].ItemName)
	})

	t.Run("review queue defaults to pending", func(t *testing.T) {
		e := newTestEnv(t)
		seedQueue(t, e)
		got, err := e.svc.ListReviewBorrowRequests(ctx, superAdmin(), "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("admin sees only own department", func(t *testing.T) {
		e := newTestEnv(t)
		seedQueue(t, e)
		got, err := e.svc.ListReviewBorrowRequests(ctx, deptAdmin("dept_tech"), "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("admin without a department sees nothing", func(t *testing.T) {
		e := newTestEnv(t)
		seedQueue(t, e)
		got, err := e.svc.ListReviewBorrowRequests(ctx, deptAdmin(""), "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("regular user sees no review queue", func(t *testing.T) {
		e := newTestEnv(t)
		seedQueue(t, e)
		got, err := e.svc.ListReviewBorrowRequests(ctx, regularUser("dept_tech"), "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
