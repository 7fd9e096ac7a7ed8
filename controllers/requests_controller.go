// controllers/requests_controller.go
package controllers

import (
	"net/http"
	"time"

	"equiptrack/app"
	"equiptrack/models"
	"equiptrack/services"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// 申请借用：视审批策略自动放行或进入待审队列
// POST /api/borrow-requests
func (rc *RequestController) Create(c *app.Ctx) {
	var in struct {
		ItemID             string           `json:"itemId" binding:"required"`
		Borrower           models.PersonRef `json:"borrower"`
		ExpectedReturnDate time.Time        `json:"expectedReturnDate" binding:"required"`
		Quantity           int              `json:"quantity"`
		Photo              string           `json:"photo"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	caller := app.CurrentUser(c)
	applicant := models.PersonRef{ID: caller.ID, Name: caller.Name, Phone: caller.Contact}
	borrower := in.Borrower
	if caller.Role == models.RoleRegularUser || (borrower.ID == "" && borrower.Name == "") {
		borrower = applicant
	}
	req, err := rc.Svc.CreateBorrowRequest(c.Request.Context(), services.CreateRequestInput{
		ItemID:             in.ItemID,
		Borrower:           borrower,
		Applicant:          applicant,
		ExpectedReturnDate: in.ExpectedReturnDate,
		Photo:              in.Photo,
		Quantity:           in.Quantity,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GET /api/borrow-requests/mine
func (rc *RequestController) ListMine(c *app.Ctx) {
	reqs, err := rc.Svc.ListMyBorrowRequests(c.Request.Context(), app.CurrentUser(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// GET /api/borrow-requests?status=
func (rc *RequestController) ListReview(c *app.Ctx) {
	status := models.RequestStatus(c.Query("status"))
	reqs, err := rc.Svc.ListReviewBorrowRequests(c.Request.Context(), app.CurrentUser(c), status)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// POST /api/borrow-requests/:id/approve
func (rc *RequestController) Approve(c *app.Ctx) {
	var in struct {
		Remark string `json:"remark"`
	}
	_ = c.ShouldBindJSON(&in)
	req, err := rc.Svc.ApproveBorrowRequest(c.Request.Context(), app.CurrentUser(c), c.Param("id"), in.Remark)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// POST /api/borrow-requests/:id/reject
func (rc *RequestController) Reject(c *app.Ctx) {
	var in struct {
		Remark string `json:"remark"`
	}
	_ = c.ShouldBindJSON(&in)
	req, err := rc.Svc.RejectBorrowRequest(c.Request.Context(), app.CurrentUser(c), c.Param("id"), in.Remark)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
