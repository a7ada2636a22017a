package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/employee-directory/internal/adapters/export/xlsx"
	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
)

type stubEmployeeUseCase struct {
	listOut []*employee.Details
	listErr error

	getID  int64
	getOut *employee.Details
	getErr error

	byDepartmentID int64
	byRoleID       int64
	filteredOut    []*employee.Details

	sortOrder employee.SortOrder
	sortedOut []*employee.Details

	createInput employee.CreateEmployeeInput
	createOut   *employee.Details
	createErr   error

	updateInput employee.UpdateEmployeeInput
	updateOut   *employee.Details
	updateErr   error

	deleteID  int64
	deleteErr error
}

func (s *stubEmployeeUseCase) ListEmployees(context.Context) ([]*employee.Details, error) {
	return s.listOut, s.listErr
}

func (s *stubEmployeeUseCase) GetEmployee(_ context.Context, id int64) (*employee.Details, error) {
	s.getID = id
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) ListEmployeesByDepartment(_ context.Context, departmentID int64) ([]*employee.Details, error) {
	s.byDepartmentID = departmentID
	return s.filteredOut, nil
}

func (s *stubEmployeeUseCase) ListEmployeesByRole(_ context.Context, roleID int64) ([]*employee.Details, error) {
	s.byRoleID = roleID
	return s.filteredOut, nil
}

func (s *stubEmployeeUseCase) ListEmployeesSortedByName(_ context.Context, order employee.SortOrder) ([]*employee.Details, error) {
	s.sortOrder = order
	return s.sortedOut, nil
}

func (s *stubEmployeeUseCase) CreateEmployee(_ context.Context, in employee.CreateEmployeeInput) (*employee.Details, error) {
	s.createInput = in
	return s.createOut, s.createErr
}

func (s *stubEmployeeUseCase) UpdateEmployee(_ context.Context, in employee.UpdateEmployeeInput) (*employee.Details, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubEmployeeUseCase) DeleteEmployee(_ context.Context, id int64) error {
	s.deleteID = id
	return s.deleteErr
}

var fixedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleDetails(id int64, name string) *employee.Details {
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	return &employee.Details{
		Employee:    employee.Employee{ID: id, Name: name, Email: &email, CreatedAt: fixedTime, UpdatedAt: fixedTime},
		Departments: []department.Department{{ID: 1, Name: "Engineering", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Roles:       []role.Role{{ID: 1, Title: "Software Engineer", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
	}
}

func newTestServer(stub *stubEmployeeUseCase) *echo.Echo {
	return NewEcho(zerolog.Nop(), Handlers{Employees: NewEmployeeHandler(stub)})
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListEmployees(t *testing.T) {
	stub := &stubEmployeeUseCase{listOut: []*employee.Details{sampleDetails(1, "Rahul Sharma")}}
	rec := doRequest(newTestServer(stub), http.MethodGet, "/employees", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body employeesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Employees, 1)
	assert.Equal(t, "Rahul Sharma", body.Employees[0].Name)
	assert.Equal(t, "Engineering", body.Employees[0].Departments[0].Name)
	assert.Equal(t, "Software Engineer", body.Employees[0].Roles[0].Title)

	raw := decode(t, rec)
	first := raw["employees"].([]any)[0].(map[string]any)
	assert.Contains(t, first, "createdAt")
	assert.Contains(t, first, "updatedAt")
}

func TestListEmployees_EmptyIs404(t *testing.T) {
	rec := doRequest(newTestServer(&stubEmployeeUseCase{listOut: []*employee.Details{}}), http.MethodGet, "/employees", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "No employees found"}, decode(t, rec))
}

func TestListEmployees_InternalError(t *testing.T) {
	rec := doRequest(newTestServer(&stubEmployeeUseCase{listErr: errors.New("connection reset")}), http.MethodGet, "/employees", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "connection reset"}, decode(t, rec))
}

func TestGetEmployeeDetails(t *testing.T) {
	stub := &stubEmployeeUseCase{getOut: sampleDetails(2, "Priya Singh")}
	rec := doRequest(newTestServer(stub), http.MethodGet, "/employees/details/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), stub.getID)

	var body employeeEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Priya Singh", body.Employee.Name)
	require.NotNil(t, body.Employee.Email)
	assert.Equal(t, "priya.singh@example.com", *body.Employee.Email)
}

func TestGetEmployeeDetails_Errors(t *testing.T) {
	rec := doRequest(newTestServer(&stubEmployeeUseCase{getErr: employee.ErrEmployeeNotFound}), http.MethodGet, "/employees/details/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "Employee not found"}, decode(t, rec))

	rec = doRequest(newTestServer(&stubEmployeeUseCase{}), http.MethodGet, "/employees/details/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec), "error")
}

func TestListEmployeesByDepartmentAndRole(t *testing.T) {
	stub := &stubEmployeeUseCase{filteredOut: []*employee.Details{sampleDetails(1, "Rahul Sharma")}}
	e := newTestServer(stub)

	rec := doRequest(e, http.MethodGet, "/employees/department/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), stub.byDepartmentID)

	rec = doRequest(e, http.MethodGet, "/employees/role/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), stub.byRoleID)

	stub.filteredOut = nil
	rec = doRequest(e, http.MethodGet, "/employees/department/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "Employees not found"}, decode(t, rec))

	rec = doRequest(e, http.MethodGet, "/employees/role/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEmployeesSortedByName(t *testing.T) {
	stub := &stubEmployeeUseCase{sortedOut: []*employee.Details{sampleDetails(3, "Ankit Verma")}}
	e := newTestServer(stub)

	rec := doRequest(e, http.MethodGet, "/employees/sort-by-name?order=DESC", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, employee.SortDesc, stub.sortOrder)

	rec = doRequest(e, http.MethodGet, "/employees/sort-by-name", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, employee.SortAsc, stub.sortOrder)

	rec = doRequest(e, http.MethodGet, "/employees/sort-by-name?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": employee.ErrInvalidSortOrder.Error()}, decode(t, rec))

	stub.sortedOut = nil
	rec = doRequest(e, http.MethodGet, "/employees/sort-by-name?order=asc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "No employees found"}, decode(t, rec))
}

func TestCreateEmployee(t *testing.T) {
	stub := &stubEmployeeUseCase{createOut: sampleDetails(4, "Neha Gupta")}
	rec := doRequest(newTestServer(stub), http.MethodPost, "/employees/new",
		`{"name":"Neha Gupta","email":"neha.gupta@example.com","departmentId":1,"roleId":1}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Neha Gupta", stub.createInput.Name)
	require.NotNil(t, stub.createInput.Email)
	assert.Equal(t, "neha.gupta@example.com", *stub.createInput.Email)
	assert.Equal(t, int64(1), stub.createInput.DepartmentID)
	assert.Equal(t, int64(1), stub.createInput.RoleID)

	body := decode(t, rec)
	assert.EqualValues(t, 4, body["id"])
	assert.Len(t, body["departments"], 1)
}

func TestCreateEmployee_NumericStringIDs(t *testing.T) {
	stub := &stubEmployeeUseCase{createOut: sampleDetails(4, "Neha Gupta")}
	rec := doRequest(newTestServer(stub), http.MethodPost, "/employees/new",
		`{"name":"Neha Gupta","departmentId":"2","roleId":"3"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2), stub.createInput.DepartmentID)
	assert.Equal(t, int64(3), stub.createInput.RoleID)

	rec = doRequest(newTestServer(stub), http.MethodPost, "/employees/new",
		`{"name":"Neha Gupta","departmentId":"two","roleId":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid name", employee.ErrInvalidName},
		{"invalid email", employee.ErrInvalidEmail},
		{"duplicate email", employee.ErrEmailAlreadyExists},
		{"value too long", employee.ErrValueTooLong},
		{"unknown department", department.ErrDepartmentNotFound},
		{"unknown role", role.ErrRoleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubEmployeeUseCase{createErr: tt.err}
			rec := doRequest(newTestServer(stub), http.MethodPost, "/employees/new", `{"name":"x","departmentId":1,"roleId":1}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.err.Error()}, decode(t, rec))
		})
	}

	rec := doRequest(newTestServer(&stubEmployeeUseCase{}), http.MethodPost, "/employees/new", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEmployee(t *testing.T) {
	stub := &stubEmployeeUseCase{updateOut: sampleDetails(1, "Rahul K Sharma")}
	rec := doRequest(newTestServer(stub), http.MethodPatch, "/employees/update/1", `{"name":"Rahul K Sharma","roleId":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), stub.updateInput.ID)
	require.NotNil(t, stub.updateInput.Name)
	assert.Equal(t, "Rahul K Sharma", *stub.updateInput.Name)
	assert.Nil(t, stub.updateInput.Email)
	assert.Nil(t, stub.updateInput.DepartmentID)
	require.NotNil(t, stub.updateInput.RoleID)
	assert.Equal(t, int64(3), *stub.updateInput.RoleID)
}

func TestUpdateEmployee_NumericStringIDs(t *testing.T) {
	stub := &stubEmployeeUseCase{updateOut: sampleDetails(1, "Rahul Sharma")}
	rec := doRequest(newTestServer(stub), http.MethodPatch, "/employees/update/1", `{"departmentId":"2","roleId":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.updateInput.DepartmentID)
	assert.Equal(t, int64(2), *stub.updateInput.DepartmentID)
	assert.Nil(t, stub.updateInput.RoleID)
	assert.Nil(t, stub.updateInput.Name)
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	stub := &stubEmployeeUseCase{updateErr: employee.ErrEmployeeNotFound}
	rec := doRequest(newTestServer(stub), http.MethodPatch, "/employees/update/404", `{"name":"Nobody"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "Employee not found with the given id"}, decode(t, rec))
}

func TestDeleteEmployee(t *testing.T) {
	stub := &stubEmployeeUseCase{}
	e := newTestServer(stub)

	rec := doRequest(e, http.MethodPost, "/employees/delete", `{"id":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), stub.deleteID)
	assert.Equal(t, map[string]any{"message": "Employee with ID 3 has been deleted."}, decode(t, rec))

	rec = doRequest(e, http.MethodPost, "/employees/delete", `{"id":"12"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), stub.deleteID)

	rec = doRequest(e, http.MethodPost, "/employees/delete", `{"id":"twelve"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stub.deleteErr = employee.ErrInvalidID
	rec = doRequest(e, http.MethodPost, "/employees/delete", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEmployees(t *testing.T) {
	stub := &stubEmployeeUseCase{listOut: []*employee.Details{sampleDetails(1, "Rahul Sharma")}}
	rec := doRequest(newTestServer(stub), http.MethodGet, "/employees/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsx.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "employees.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rahul Sharma", rows[1][1])
}

func TestUnknownRouteUsesMessageBody(t *testing.T) {
	rec := doRequest(newTestServer(&stubEmployeeUseCase{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec), "message")
}
