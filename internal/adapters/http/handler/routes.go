package handler

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/adapters/http/middleware"
)

// Handlers はルーティング対象のハンドラ一式です。
type Handlers struct {
	Employees *EmployeeHandler
	Directory *DirectoryHandler
	Seed      *SeedHandler
}

// NewEcho はミドルウェアとルートを登録した echo インスタンスを返します。
func NewEcho(log zerolog.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(middleware.ContextLogger(log))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	RegisterRoutes(e, h)
	return e
}

// RegisterRoutes はエンドポイントを登録します。
func RegisterRoutes(e *echo.Echo, h Handlers) {
	if h.Seed != nil {
		e.GET("/seed_db", h.Seed.Seed)
	}

	if h.Employees != nil {
		e.GET("/employees", h.Employees.ListEmployees)
		e.GET("/employees/export", h.Employees.ExportEmployees)
		e.GET("/employees/details/:id", h.Employees.GetEmployeeDetails)
		e.GET("/employees/department/:departmentId", h.Employees.ListEmployeesByDepartment)
		e.GET("/employees/role/:roleId", h.Employees.ListEmployeesByRole)
		e.GET("/employees/sort-by-name", h.Employees.ListEmployeesSortedByName)
		e.POST("/employees/new", h.Employees.CreateEmployee)
		e.PATCH("/employees/update/:id", h.Employees.UpdateEmployee)
		e.POST("/employees/delete", h.Employees.DeleteEmployee)
	}

	if h.Directory != nil {
		e.GET("/departments", h.Directory.ListDepartments)
		e.GET("/departments/:id", h.Directory.GetDepartment)
		e.GET("/roles", h.Directory.ListRoles)
		e.GET("/roles/:id", h.Directory.GetRole)
	}
}
