package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/employee-directory/internal/adapters/export/xlsx"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
)

const (
	msgNoEmployees          = "No employees found"
	msgEmployeeNotFound     = "Employee not found"
	msgEmployeesNotFound    = "Employees not found"
	msgEmployeeNotFoundByID = "Employee not found with the given id"
)

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// ListEmployees は GET /employees を処理します。
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	list, err := h.svc.ListEmployees(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	if len(list) == 0 {
		return notFound(msgNoEmployees)
	}
	return c.JSON(http.StatusOK, toEmployeesResponse(list))
}

// GetEmployeeDetails は GET /employees/details/:id を処理します。
func (h *EmployeeHandler) GetEmployeeDetails(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	details, err := h.svc.GetEmployee(c.Request().Context(), id)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return notFound(msgEmployeeNotFound)
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, employeeEnvelope{Employee: toEmployeeResponse(details)})
}

// ListEmployeesByDepartment は GET /employees/department/:departmentId を処理します。
func (h *EmployeeHandler) ListEmployeesByDepartment(c echo.Context) error {
	departmentID, err := parseIDParam(c, "departmentId")
	if err != nil {
		return err
	}

	list, err := h.svc.ListEmployeesByDepartment(c.Request().Context(), departmentID)
	if err != nil {
		return toHTTPError(err)
	}
	if len(list) == 0 {
		return notFound(msgEmployeesNotFound)
	}
	return c.JSON(http.StatusOK, toEmployeesResponse(list))
}

// ListEmployeesByRole は GET /employees/role/:roleId を処理します。
func (h *EmployeeHandler) ListEmployeesByRole(c echo.Context) error {
	roleID, err := parseIDParam(c, "roleId")
	if err != nil {
		return err
	}

	list, err := h.svc.ListEmployeesByRole(c.Request().Context(), roleID)
	if err != nil {
		return toHTTPError(err)
	}
	if len(list) == 0 {
		return notFound(msgEmployeesNotFound)
	}
	return c.JSON(http.StatusOK, toEmployeesResponse(list))
}

// ListEmployeesSortedByName は GET /employees/sort-by-name?order=asc|desc を処理します。
func (h *EmployeeHandler) ListEmployeesSortedByName(c echo.Context) error {
	order, err := employee.ParseSortOrder(c.QueryParam("order"))
	if err != nil {
		return toHTTPError(err)
	}

	list, err := h.svc.ListEmployeesSortedByName(c.Request().Context(), order)
	if err != nil {
		return toHTTPError(err)
	}
	if len(list) == 0 {
		return notFound(msgNoEmployees)
	}
	return c.JSON(http.StatusOK, toEmployeesResponse(list))
}

// CreateEmployee は POST /employees/new を処理します。
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	created, err := h.svc.CreateEmployee(c.Request().Context(), employee.CreateEmployeeInput{
		Name:         req.Name,
		Email:        req.Email,
		DepartmentID: int64(req.DepartmentID),
		RoleID:       int64(req.RoleID),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// UpdateEmployee は PATCH /employees/update/:id を処理します。
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	updated, err := h.svc.UpdateEmployee(c.Request().Context(), employee.UpdateEmployeeInput{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		DepartmentID: req.DepartmentID.int64Ptr(),
		RoleID:       req.RoleID.int64Ptr(),
	})
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return notFound(msgEmployeeNotFoundByID)
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// DeleteEmployee は POST /employees/delete を処理します。存在しない ID でも 200 を返します。
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	var req deleteEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	id := int64(req.ID)
	if err := h.svc.DeleteEmployee(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Employee with ID %d has been deleted.", id)})
}

// ExportEmployees は GET /employees/export を処理し、全社員を XLSX で返します。
func (h *EmployeeHandler) ExportEmployees(c echo.Context) error {
	list, err := h.svc.ListEmployees(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	var buf bytes.Buffer
	if err := xlsx.WriteEmployees(&buf, list); err != nil {
		return toHTTPError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="employees.xlsx"`)
	return c.Blob(http.StatusOK, xlsx.ContentType, buf.Bytes())
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}
