// controllers/categories_controller.go
package controllers

import (
	"net/http"

	"equiptrack/app"
	"equiptrack/services"
)

type CategoryController struct{ *Srv }

func NewCategoryController(s *Srv) *CategoryController { return &CategoryController{Srv: s} }

// GET /api/categories
func (cc *CategoryController) List(c *app.Ctx) {
	cats, err := cc.Svc.ListCategories(c.Request.Context())
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}

// POST /api/categories
func (cc *CategoryController) Create(c *app.Ctx) {
	var in services.AddCategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	cat, err := cc.Svc.AddCategory(c.Request.Context(), in)
	if err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// DELETE /api/categories/:id
func (cc *CategoryController) Delete(c *app.Ctx) {
	if err := cc.Svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		cc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
