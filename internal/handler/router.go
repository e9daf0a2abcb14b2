package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Courses *CourseHandler
	Sheets  *SheetHandler
	Slots   *SlotHandler
	Grades  *GradeHandler
	Metrics *MetricsHandler
}

// RegisterRoutes mounts the API under group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.GET("/health", h.Metrics.Health)
	group.GET("/ready", h.Metrics.Ready)
	group.GET("/metrics", h.Metrics.Prometheus)

	courses := group.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:courseId", h.Courses.Get)
	courses.DELETE("/:courseId", h.Courses.Delete)
	courses.GET("/:courseId/members", h.Courses.ListMembers)
	courses.POST("/:courseId/members", h.Courses.AddMembers)
	courses.DELETE("/:courseId/members/:memberId", h.Courses.RemoveMember)
	courses.GET("/:courseId/sheets", h.Sheets.List)
	courses.POST("/:courseId/sheets", h.Sheets.Create)

	sheets := group.Group("/sheets")
	sheets.GET("/:id", h.Sheets.Get)
	sheets.DELETE("/:id", h.Sheets.Delete)
	sheets.GET("/:id/slots", h.Sheets.ListSlots)
	sheets.POST("/:id/slots", h.Sheets.CreateSlots)
	sheets.GET("/:id/export", h.Sheets.Export)
	sheets.GET("/:id/grades", h.Grades.List)
	sheets.POST("/:id/grades", h.Grades.SubmitForSheet)
	sheets.DELETE("/:id/grades/:memberId", h.Grades.Delete)

	slots := group.Group("/slots")
	slots.GET("/:slotId", h.Slots.Get)
	slots.POST("/:slotId/signup", h.Slots.Signup)
	slots.DELETE("/:slotId/signup/:memberId", h.Slots.Withdraw)

	group.POST("/grades", h.Grades.Submit)
}
