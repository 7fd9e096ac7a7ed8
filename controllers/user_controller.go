package controllers

import (
	"net/http"

	"equiptrack/app"
	"equiptrack/models"
	"equiptrack/services"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?departmentId=
func (uc *UserController) ListUsers(c *app.Ctx) {
	users, err := uc.Svc.ListUsers(c.Request.Context(), app.CurrentUser(c),
		services.UserFilter{DepartmentID: c.Query("departmentId")})
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"users": users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *app.Ctx) {
	u, err := uc.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/users
func (uc *UserController) CreateUser(c *app.Ctx) {
	var in services.AddUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := uc.Svc.AddUser(c.Request.Context(), app.CurrentUser(c), in)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id
func (uc *UserController) UpdateUser(c *app.Ctx) {
	var in services.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := uc.Svc.UpdateUser(c.Request.Context(), app.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		uc.fail(c, err)
		return
	}
	// 封禁后立刻踢掉所有会话
	if uc.AppSess != nil && in.Status != nil && *in.Status == models.UserBanned {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), u.ID)
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *app.Ctx) {
	u, err := uc.Svc.DeleteUser(c.Request.Context(), app.CurrentUser(c), c.Param("id"))
	if err != nil {
		uc.fail(c, err)
		return
	}
	if uc.AppSess != nil {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), u.ID)
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "deleted": u})
}
