package routes

import (
	"github.com/gin-gonic/gin"

	"equiptrack/app"
	"equiptrack/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	itemCtl := controllers.NewItemController(s)
	reqCtl := controllers.NewRequestController(s)
	userCtl := controllers.NewUserController(s)
	deptCtl := controllers.NewDepartmentController(s)
	catCtl := controllers.NewCategoryController(s)
	apprCtl := controllers.NewApprovalController(s)
	devCtl := controllers.NewDeviceController(s)

	// 复用的中间件
	authMW := a.AuthRequired()
	adminMW := app.AdminOnly()
	itemMgrMW := app.ItemManagerOnly()

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	// ------------------------------
	// 公开：登录/注册、部门列表（注册页用）
	// ------------------------------
	r.POST("/api/login", authCtl.Login)
	r.POST("/api/signup", authCtl.Signup)
	r.GET("/api/departments", deptCtl.List)

	api := r.Group("/api", authMW)
	{
		api.POST("/logout", authCtl.Logout)
		api.GET("/whoami", authCtl.Whoami)

		// 物品
		api.GET("/items", itemCtl.ListItems)
		api.GET("/items/:id", itemCtl.GetItem)
		api.POST("/items", itemMgrMW, itemCtl.CreateItem)
		api.PUT("/items/:id", itemMgrMW, itemCtl.UpdateItem)
		api.DELETE("/items/:id", itemMgrMW, itemCtl.DeleteItem)

		// 借还
		api.POST("/items/:id/borrow", itemCtl.Borrow)
		api.POST("/items/:id/return/:entryId", itemCtl.Return)
		api.GET("/history", itemCtl.History)

		// 借用申请
		api.POST("/borrow-requests", reqCtl.Create)
		api.GET("/borrow-requests/mine", reqCtl.ListMine)
		api.GET("/borrow-requests", itemMgrMW, reqCtl.ListReview)
		api.POST("/borrow-requests/:id/approve", itemMgrMW, reqCtl.Approve)
		api.POST("/borrow-requests/:id/reject", itemMgrMW, reqCtl.Reject)

		// 分类
		api.GET("/categories", catCtl.List)
		api.POST("/categories", itemMgrMW, catCtl.Create)
		api.DELETE("/categories/:id", itemMgrMW, catCtl.Delete)

		// 注册审批
		api.GET("/approvals", apprCtl.List)
		api.POST("/approvals/:id", apprCtl.Approve)
		api.DELETE("/approvals/:id", apprCtl.Reject)

		// 推送 token
		api.POST("/devices/token", devCtl.Register)
	}

	// ------------------------------
	// 用户/部门管理（仅管理员）
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
		users.POST("", userCtl.CreateUser)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	depts := r.Group("/api/departments", authMW, adminMW)
	{
		depts.POST("", deptCtl.Create)
		depts.PUT("/structure", deptCtl.UpdateStructure)
		depts.PUT("/:id", deptCtl.Update)
		depts.DELETE("/:id", deptCtl.Delete)
	}
}
