package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kunalsaini/authline-backend/internal/users"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/types"
)

type fakeUsersService struct {
	createInput users.CreateUserInput
	createDTO   *users.UserDTO
	createErr   error

	getID  string
	getDTO *users.UserDTO
	getErr error

	updateID    string
	updateInput users.UpdateUserInput
	updateDTO   *users.UserDTO
	updateErr   error

	deleteID  string
	deleteErr error

	listDTOs []users.UserDTO
	listErr  error

	stats    *users.DashboardStats
	statsErr error
}

func (f *fakeUsersService) Create(_ context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	f.createInput = input
	return f.createDTO, f.createErr
}

func (f *fakeUsersService) GetByExternalID(_ context.Context, userID string) (*users.UserDTO, error) {
	f.getID = userID
	return f.getDTO, f.getErr
}

func (f *fakeUsersService) Update(_ context.Context, userID string, input users.UpdateUserInput) (*users.UserDTO, error) {
	f.updateID = userID
	f.updateInput = input
	return f.updateDTO, f.updateErr
}

func (f *fakeUsersService) Delete(_ context.Context, userID string) error {
	f.deleteID = userID
	return f.deleteErr
}

func (f *fakeUsersService) List(context.Context) ([]users.UserDTO, error) {
	return f.listDTOs, f.listErr
}

func (f *fakeUsersService) DashboardStats(context.Context) (*users.DashboardStats, error) {
	return f.stats, f.statsErr
}

func newAdminRouter(svc users.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/users", AdminListUsers(svc, nil))
	r.Post("/users", AdminCreateUser(svc, nil))
	r.Get("/users/{userID}", AdminGetUser(svc, nil))
	r.Put("/users/{userID}", AdminUpdateUser(svc, nil))
	r.Delete("/users/{userID}", AdminDeleteUser(svc, nil))
	return r
}

func TestAdminCreateUserWithRole(t *testing.T) {
	svc := &fakeUsersService{createDTO: &users.UserDTO{UserID: "pa03202507143005", Role: enums.RolePartner}}
	router := newAdminRouter(svc)

	body := `{"first_name":"Pari","last_name":"Shah","mobile":"+919000000001","password":"secret1","gender":"female","country":"India","state":"Gujarat","city":"Surat","role":"partner"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput.Role != enums.RolePartner {
		t.Fatalf("expected partner role, got %s", svc.createInput.Role)
	}
}

func TestAdminCreateUserValidation(t *testing.T) {
	svc := &fakeUsersService{}
	router := newAdminRouter(svc)

	body := `{"first_name":"Pari","mobile":"bad","password":"x","gender":"female","country":"India","state":"Gujarat","city":"Surat"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminGetUser(t *testing.T) {
	svc := &fakeUsersService{getDTO: &users.UserDTO{UserID: "ku03202507143005", FirstName: "Kunal"}}
	router := newAdminRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/ku03202507143005", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.getID != "ku03202507143005" {
		t.Fatalf("unexpected lookup id %s", svc.getID)
	}
}

func TestAdminGetUserNotFound(t *testing.T) {
	svc := &fakeUsersService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}
	router := newAdminRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/zz03202507143005", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUpdateUserPartial(t *testing.T) {
	svc := &fakeUsersService{updateDTO: &users.UserDTO{UserID: "ku03202507143005", City: "Udaipur"}}
	router := newAdminRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/users/ku03202507143005", strings.NewReader(`{"city":"Udaipur"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updateID != "ku03202507143005" {
		t.Fatalf("unexpected update id %s", svc.updateID)
	}
	if svc.updateInput.City == nil || *svc.updateInput.City != "Udaipur" {
		t.Fatalf("city not propagated: %+v", svc.updateInput)
	}
	if svc.updateInput.FirstName != nil {
		t.Fatal("unset fields must stay nil")
	}
}

func TestAdminDeleteUser(t *testing.T) {
	svc := &fakeUsersService{}
	router := newAdminRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/users/ku03202507143005", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deleteID != "ku03202507143005" {
		t.Fatalf("unexpected delete id %s", svc.deleteID)
	}
}

func TestDashboard(t *testing.T) {
	svc := &fakeUsersService{stats: &users.DashboardStats{
		TotalUsers:       3,
		MonthlyUserStats: map[string]int64{"Jan": 0, "Mar": 1, "Dec": 2},
	}}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp := httptest.NewRecorder()
	Dashboard(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["totalUsers"].(float64) != 3 {
		t.Fatalf("unexpected totals %v", data)
	}
	months := data["monthlyUserStats"].(map[string]any)
	if months["Mar"].(float64) != 1 {
		t.Fatalf("expected month-name keyed counts, got %v", months)
	}
}
