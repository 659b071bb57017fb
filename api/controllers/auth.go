package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/kunalsaini/authline-backend/api/responses"
	"github.com/kunalsaini/authline-backend/api/validators"
	"github.com/kunalsaini/authline-backend/internal/auth"
	"github.com/kunalsaini/authline-backend/internal/users"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/storage/imagehost"
)

// maxSignupFormBytes bounds the multipart payload including the selfie.
const maxSignupFormBytes = 10 << 20

// ImageUploader is the slice of the image host client signup needs.
type ImageUploader interface {
	Enabled() bool
	Upload(ctx context.Context, name string, data []byte) (*imagehost.UploadResult, error)
}

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile" validate:"required,e164"`
	Password  string `json:"password" validate:"required,min=6"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	Country   string `json:"country" validate:"required"`
	State     string `json:"state" validate:"required"`
	City      string `json:"city" validate:"required"`
}

// Signup registers an account from a multipart form carrying the profile
// fields plus a live_image file. The image is pushed to the external host
// first so no user row ever exists without its picture.
func Signup(svc auth.Service, images ImageUploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxSignupFormBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		payload := signupRequest{
			FirstName: validators.SanitizeString(r.FormValue("first_name"), 64),
			LastName:  validators.SanitizeString(r.FormValue("last_name"), 64),
			Mobile:    validators.SanitizeString(r.FormValue("mobile"), 20),
			Password:  r.FormValue("password"),
			Gender:    validators.SanitizeString(r.FormValue("gender"), 10),
			Country:   validators.SanitizeString(r.FormValue("country"), 64),
			State:     validators.SanitizeString(r.FormValue("state"), 64),
			City:      validators.SanitizeString(r.FormValue("city"), 64),
		}
		if err := validators.ValidateStruct(payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := r.FormFile("live_image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "live image is required").
				WithDetails(map[string]string{"live_image": "is required"}))
			return
		}
		imageBytes, err := io.ReadAll(io.LimitReader(file, maxSignupFormBytes))
		closeErr := file.Close()
		if err != nil || closeErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading live image"))
			return
		}

		input := users.CreateUserInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Mobile:    payload.Mobile,
			Password:  payload.Password,
			Gender:    enums.Gender(payload.Gender),
			Country:   payload.Country,
			State:     payload.State,
			City:      payload.City,
		}

		if images != nil && images.Enabled() {
			uploaded, err := images.Upload(r.Context(), header.Filename, imageBytes)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "uploading live image"))
				return
			}
			input.LiveImage = uploaded.URL
			input.ImageHandle = uploaded.DeleteHandle
		}

		result, err := svc.Signup(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type loginRequest struct {
	Mobile   string `json:"mobile" validate:"required,e164"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a session token.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Mobile:   payload.Mobile,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type sendOtpRequest struct {
	Mobile string `json:"mobile" validate:"required,e164"`
}

type sendOtpResponse struct {
	Message string `json:"message"`
	Otp     string `json:"otp,omitempty"`
}

// SendOtp issues a password-reset challenge. Without an SMS gateway the code
// is only echoed back in dev environments.
func SendOtp(svc auth.Service, exposeOtp bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendOtpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SendOtp(r.Context(), auth.SendOtpInput{Mobile: payload.Mobile})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := sendOtpResponse{Message: "OTP sent successfully"}
		if exposeOtp {
			resp.Otp = result.Code
		}
		responses.WriteSuccess(w, resp)
	}
}

type forgetPasswordRequest struct {
	Mobile      string `json:"mobile" validate:"required,e164"`
	Otp         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ForgetPassword replaces the password once the challenge checks out.
func ForgetPassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.ResetPassword(r.Context(), auth.ResetPasswordInput{
			Mobile:      payload.Mobile,
			Otp:         payload.Otp,
			NewPassword: payload.NewPassword,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Password updated successfully"})
	}
}
