// controllers/devices_controller.go
package controllers

import (
	"net/http"

	"equiptrack/app"
)

type DeviceController struct{ *Srv }

func NewDeviceController(s *Srv) *DeviceController { return &DeviceController{Srv: s} }

// POST /api/devices/token
func (dc *DeviceController) Register(c *app.Ctx) {
	var in struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	caller := app.CurrentUser(c)
	if err := dc.Svc.RegisterDeviceToken(c.Request.Context(), caller.ID, in.Token, in.Platform); err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
