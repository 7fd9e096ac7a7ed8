// controllers/approvals_controller.go
package controllers

import (
	"net/http"

	"equiptrack/app"
)

// ApprovalController 处理注册审批
type ApprovalController struct{ *Srv }

func NewApprovalController(s *Srv) *ApprovalController { return &ApprovalController{Srv: s} }

// GET /api/approvals
func (ac *ApprovalController) List(c *app.Ctx) {
	regs, err := ac.Svc.ListRegistrationRequests(c.Request.Context(), app.CurrentUser(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": regs})
}

// POST /api/approvals/:id
func (ac *ApprovalController) Approve(c *app.Ctx) {
	u, err := ac.Svc.ApproveRegistration(c.Request.Context(), app.CurrentUser(c), c.Param("id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// DELETE /api/approvals/:id
func (ac *ApprovalController) Reject(c *app.Ctx) {
	if err := ac.Svc.RejectRegistration(c.Request.Context(), app.CurrentUser(c), c.Param("id")); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
