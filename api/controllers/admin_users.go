package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kunalsaini/authline-backend/api/responses"
	"github.com/kunalsaini/authline-backend/api/validators"
	"github.com/kunalsaini/authline-backend/internal/users"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
)

// AdminListUsers returns all active non-admin accounts.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

type adminCreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile" validate:"required,e164"`
	Password  string `json:"password" validate:"required,min=6"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	Country   string `json:"country" validate:"required"`
	State     string `json:"state" validate:"required"`
	City      string `json:"city" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin partner"`
}

// AdminCreateUser registers an account on behalf of an operator. Unlike
// self-signup an explicit role may be assigned.
func AdminCreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminCreateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), users.CreateUserInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Mobile:    payload.Mobile,
			Password:  payload.Password,
			Gender:    enums.Gender(payload.Gender),
			Country:   payload.Country,
			State:     payload.State,
			City:      payload.City,
			Role:      enums.Role(payload.Role),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminGetUser loads one account by its public identifier.
func AdminGetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		dto, err := svc.GetByExternalID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type adminUpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=2"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,e164"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Country   *string `json:"country,omitempty"`
	State     *string `json:"state,omitempty"`
	City      *string `json:"city,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user admin partner"`
}

func (p adminUpdateUserRequest) toInput() users.UpdateUserInput {
	input := users.UpdateUserInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Mobile:    p.Mobile,
		Password:  p.Password,
		Country:   p.Country,
		State:     p.State,
		City:      p.City,
	}
	if p.Gender != nil {
		gender := enums.Gender(*p.Gender)
		input.Gender = &gender
	}
	if p.Role != nil {
		role := enums.Role(*p.Role)
		input.Role = &role
	}
	return input
}

// AdminUpdateUser applies a partial update to an account.
func AdminUpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		var payload adminUpdateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeleteUser soft deletes an account. The row and its mobile number
// reservation survive.
func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		if err := svc.Delete(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "User deleted successfully"})
	}
}
