package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type departmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type roleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type employeeResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Email       *string              `json:"email"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Departments []departmentResponse `json:"departments"`
	Roles       []roleResponse       `json:"roles"`
}

type employeesResponse struct {
	Employees []employeeResponse `json:"employees"`
}

type employeeEnvelope struct {
	Employee employeeResponse `json:"employee"`
}

type departmentsResponse struct {
	Departments []departmentResponse `json:"departments"`
}

type rolesResponse struct {
	Roles []roleResponse `json:"roles"`
}

type departmentEnvelope struct {
	Department departmentResponse `json:"department"`
}

type roleEnvelope struct {
	Role roleResponse `json:"role"`
}

type createEmployeeRequest struct {
	Name         string     `json:"name"`
	Email        *string    `json:"email"`
	DepartmentID flexibleID `json:"departmentId"`
	RoleID       flexibleID `json:"roleId"`
}

type updateEmployeeRequest struct {
	Name         *string     `json:"name"`
	Email        *string     `json:"email"`
	DepartmentID *flexibleID `json:"departmentId"`
	RoleID       *flexibleID `json:"roleId"`
}

type deleteEmployeeRequest struct {
	ID flexibleID `json:"id"`
}

// flexibleID は数値と数値文字列のどちらの JSON 表現も受け付けます。
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("must be an integer: %w", err)
	}
	*f = flexibleID(v)
	return nil
}

func (f *flexibleID) int64Ptr() *int64 {
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}

func toDepartmentResponse(d department.Department) departmentResponse {
	return departmentResponse{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func toRoleResponse(r role.Role) roleResponse {
	return roleResponse{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func toEmployeeResponse(d *employee.Details) employeeResponse {
	departments := make([]departmentResponse, 0, len(d.Departments))
	for _, dep := range d.Departments {
		departments = append(departments, toDepartmentResponse(dep))
	}
	roles := make([]roleResponse, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, toRoleResponse(r))
	}
	return employeeResponse{
		ID:          d.ID,
		Name:        d.Name,
		Email:       d.Email,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Departments: departments,
		Roles:       roles,
	}
}

func toEmployeesResponse(list []*employee.Details) employeesResponse {
	employees := make([]employeeResponse, 0, len(list))
	for _, d := range list {
		employees = append(employees, toEmployeeResponse(d))
	}
	return employeesResponse{Employees: employees}
}
