// controllers/auth_controller.go
package controllers

import (
	"net/http"

	"equiptrack/app"
	"equiptrack/models"
	"equiptrack/services"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/login
func (ac *AuthController) Login(c *app.Ctx) {
	var in struct {
		Contact  string `json:"contact" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := ac.Svc.Authenticate(c.Request.Context(), in.Contact, in.Password)
	if err != nil {
		ac.fail(c, err)
		return
	}
	au := models.AuthUser{ID: u.ID, Name: u.Name, Contact: u.Contact, Role: u.Role, DepartmentID: u.DepartmentID}
	token, jti, err := ac.Signer.Issue(au)
	if err != nil {
		ac.fail(c, err)
		return
	}
	if ac.AppSess != nil {
		if err := ac.AppSess.Create(c.Request.Context(), jti, au); err != nil {
			ac.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, app.H{"token": token, "user": u})
}

// POST /api/signup
func (ac *AuthController) Signup(c *app.Ctx) {
	var in struct {
		Name           string `json:"name" binding:"required"`
		Contact        string `json:"contact" binding:"required"`
		Password       string `json:"password" binding:"required"`
		DepartmentName string `json:"departmentName"`
		InvitationCode string `json:"invitationCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	reg, err := ac.Svc.Signup(c.Request.Context(), services.SignupInput{
		Name:           in.Name,
		Contact:        in.Contact,
		Password:       in.Password,
		DepartmentName: in.DepartmentName,
		InvitationCode: in.InvitationCode,
	})
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"request": reg, "message": "registration pending approval"})
}

// POST /api/logout
func (ac *AuthController) Logout(c *app.Ctx) {
	if ac.AppSess != nil {
		if sid := app.SessionID(c); sid != "" {
			_ = ac.AppSess.Delete(c.Request.Context(), sid)
		}
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/whoami
func (ac *AuthController) Whoami(c *app.Ctx) {
	c.JSON(http.StatusOK, app.H{"user": app.CurrentUser(c)})
}
