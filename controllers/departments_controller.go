// controllers/departments_controller.go
package controllers

import (
	"net/http"

	"equiptrack/app"
	"equiptrack/services"
)

type DepartmentController struct{ *Srv }

func NewDepartmentController(s *Srv) *DepartmentController { return &DepartmentController{Srv: s} }

// GET /api/departments（公开，注册页需要选部门）
func (dc *DepartmentController) List(c *app.Ctx) {
	depts, err := dc.Svc.ListDepartments(c.Request.Context())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"departments": depts})
}

// POST /api/departments
func (dc *DepartmentController) Create(c *app.Ctx) {
	var in services.AddDepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	d, err := dc.Svc.AddDepartment(c.Request.Context(), in)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// PUT /api/departments/:id
func (dc *DepartmentController) Update(c *app.Ctx) {
	var in services.UpdateDepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	d, err := dc.Svc.UpdateDepartment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// 树结构批量调整（拖拽排序）
// PUT /api/departments/structure
func (dc *DepartmentController) UpdateStructure(c *app.Ctx) {
	var in struct {
		Updates []services.StructureUpdate `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	depts, err := dc.Svc.UpdateDepartmentStructure(c.Request.Context(), in.Updates)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"departments": depts})
}

// DELETE /api/departments/:id
func (dc *DepartmentController) Delete(c *app.Ctx) {
	if err := dc.Svc.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
