// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"equiptrack/app"
	"equiptrack/auth"
	"equiptrack/config"
	"equiptrack/services"
	"equiptrack/session"
)

type Srv struct {
	Svc     *services.Service
	Signer  *auth.Signer
	AppSess *session.AppSessionStore // nil 时仅用 JWT
	Logger  *zap.Logger
	Cfg     config.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Svc:     a.Svc,
		Signer:  a.Signer,
		AppSess: a.AppSessions(),
		Logger:  a.Logger,
		Cfg:     a.Config,
	}
}

// fail 统一错误到状态码
func (s *Srv) fail(c *app.Ctx, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, app.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrUserBanned):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrRegistrationPending):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrInvalidInvitation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case services.KindInsufficientStock, services.KindInvalidState:
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case services.KindForbidden:
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case services.KindAlreadyProcessed, services.KindConflict:
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		s.Logger.Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
