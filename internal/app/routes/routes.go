package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/controllers"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Student    *controllers.StudentController
	Report     *controllers.ReportController
	Dashboard  *controllers.DashboardController
	Department *controllers.DepartmentController
	Records    *controllers.RecordsController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public routes ---
	router.GET("/", c.Auth.Home)
	router.GET("/login", c.Auth.LoginPage)
	router.POST("/login", c.Auth.Login)
	router.GET("/logout", c.Auth.Logout)
	router.GET("/register", c.Auth.RegisterPage)
	router.POST("/register", c.Auth.Register)
	router.GET("/health", c.Health.Health)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.RequireAuth())

	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.List)
		students.GET("/:identifier", c.Student.Detail)
		students.GET("/:identifier/marks", c.Student.Marks)
		students.GET("/:identifier/attendance", c.Student.Attendance)
		students.GET("/:identifier/fees", c.Student.Fees)
	}

	authenticated.GET("/leaderboard", c.Report.Leaderboard)
	authenticated.GET("/analytics/subjects", c.Report.SubjectAnalytics)
	authenticated.GET("/api/attendance-chart", c.Student.AttendanceChart)

	dashboards := authenticated.Group("/dashboard")
	{
		dashboards.GET("", c.Dashboard.Index)
		dashboards.GET("/staff", authMiddleware.RoleRequired(models.RoleStaff), c.Dashboard.Staff)
		dashboards.GET("/student", authMiddleware.RoleRequired(models.RoleStudent), c.Dashboard.Student)
		dashboards.GET("/parent", authMiddleware.RoleRequired(models.RoleParent), c.Dashboard.Student)
	}

	// Catalog reads are open to every role; writes are staff only
	authenticated.GET("/admin/departments", c.Department.GetAllDepartments)
	authenticated.GET("/admin/subjects", c.Department.GetAllSubjects)

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.StaffOnly())
	{
		admin.POST("/departments", c.Department.CreateDepartment)
		admin.POST("/subjects", c.Department.CreateSubject)
		admin.POST("/students", c.Records.CreateStudent)
		admin.PUT("/marks", c.Records.UpsertMarks)
		admin.PUT("/attendance", c.Records.UpsertAttendance)
		admin.POST("/fees", c.Records.CreateFee)
		admin.PUT("/fees/:id/payment", c.Records.RecordPayment)
		admin.PUT("/profiles", c.Records.LinkProfile)
	}
}
