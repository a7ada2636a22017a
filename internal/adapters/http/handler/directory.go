package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

// DirectoryHandler は部署・役職の参照 API です。
type DirectoryHandler struct {
	departments department.UseCase
	roles       role.UseCase
}

// NewDirectoryHandler は DirectoryHandler を生成します。
func NewDirectoryHandler(departments department.UseCase, roles role.UseCase) *DirectoryHandler {
	return &DirectoryHandler{departments: departments, roles: roles}
}

// ListDepartments は GET /departments を処理します。
func (h *DirectoryHandler) ListDepartments(c echo.Context) error {
	list, err := h.departments.ListDepartments(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	resp := departmentsResponse{Departments: make([]departmentResponse, 0, len(list))}
	for _, d := range list {
		resp.Departments = append(resp.Departments, toDepartmentResponse(*d))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDepartment は GET /departments/:id を処理します。
func (h *DirectoryHandler) GetDepartment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	d, err := h.departments.GetDepartment(c.Request().Context(), id)
	if errors.Is(err, department.ErrDepartmentNotFound) {
		return notFound("Department not found")
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, departmentEnvelope{Department: toDepartmentResponse(*d)})
}

// ListRoles は GET /roles を処理します。
func (h *DirectoryHandler) ListRoles(c echo.Context) error {
	list, err := h.roles.ListRoles(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	resp := rolesResponse{Roles: make([]roleResponse, 0, len(list))}
	for _, r := range list {
		resp.Roles = append(resp.Roles, toRoleResponse(*r))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRole は GET /roles/:id を処理します。
func (h *DirectoryHandler) GetRole(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	r, err := h.roles.GetRole(c.Request().Context(), id)
	if errors.Is(err, role.ErrRoleNotFound) {
		return notFound("Role not found")
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, roleEnvelope{Role: toRoleResponse(*r)})
}
