// controllers/items_controller.go
package controllers

import (
	"net/http"
	"time"

	"equiptrack/app"
	"equiptrack/models"
	"equiptrack/services"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// GET /api/items?departmentId=&allAvailable=
func (ic *ItemController) ListItems(c *app.Ctx) {
	f := services.ItemFilter{
		DepartmentID: c.Query("departmentId"),
		AllAvailable: c.Query("allAvailable") == "true",
	}
	items, err := ic.Svc.ListItems(c.Request.Context(), app.CurrentUser(c), f)
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *app.Ctx) {
	it, err := ic.Svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/items
func (ic *ItemController) CreateItem(c *app.Ctx) {
	var in services.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Svc.AddItem(c.Request.Context(), in)
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// PUT /api/items/:id
func (ic *ItemController) UpdateItem(c *app.Ctx) {
	var in services.UpdateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Svc.UpdateItem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DELETE /api/items/:id
func (ic *ItemController) DeleteItem(c *app.Ctx) {
	if err := ic.Svc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// 借出（直借，管理路径）
// POST /api/items/:id/borrow
func (ic *ItemController) Borrow(c *app.Ctx) {
	var in struct {
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
	borrower := in.Borrower
	var operator *models.PersonRef
	if caller.Role == models.RoleRegularUser {
		// 普通用户只能给自己借
		borrower = models.PersonRef{ID: caller.ID, Name: caller.Name, Phone: caller.Contact}
	} else {
		operator = &models.PersonRef{ID: caller.ID, Name: caller.Name, Phone: caller.Contact}
		if borrower.ID == "" && borrower.Name == "" {
			borrower = models.PersonRef{ID: caller.ID, Name: caller.Name, Phone: caller.Contact}
		}
	}
	it, err := ic.Svc.BorrowItem(c.Request.Context(), services.BorrowInput{
		ItemID:             c.Param("id"),
		Borrower:           borrower,
		Operator:           operator,
		ExpectedReturnDate: in.ExpectedReturnDate,
		Quantity:           in.Quantity,
		Photo:              in.Photo,
	})
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/items/:id/return/:entryId
func (ic *ItemController) Return(c *app.Ctx) {
	var in struct {
		Photo  string `json:"photo"`
		Forced bool   `json:"forced"`
	}
	_ = c.ShouldBindJSON(&in)

	caller := app.CurrentUser(c)
	adminName := ""
	if in.Forced {
		if !caller.Role.CanManageItems() {
			c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
			return
		}
		adminName = caller.Name
	}
	it, err := ic.Svc.ReturnItem(c.Request.Context(), c.Param("id"), c.Param("entryId"), services.ReturnInput{
		Photo:     in.Photo,
		Forced:    in.Forced,
		AdminName: adminName,
	})
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// GET /api/history?departmentId=
func (ic *ItemController) History(c *app.Ctx) {
	records, err := ic.Svc.ListHistory(c.Request.Context(), app.CurrentUser(c), c.Query("departmentId"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"history": records})
}
