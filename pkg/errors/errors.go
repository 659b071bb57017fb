package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeDuplicate          Code = "DUPLICATE_RESOURCE"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidOtp         Code = "INVALID_OTP"
	CodeNotFound           Code = "NOT_FOUND"
	CodeNoToken            Code = "NO_TOKEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInternal           Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeDuplicate: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "resource already exists",
		DetailsAllowed: true,
	},
	CodeInvalidCredentials: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid credentials",
	},
	CodeInvalidOtp: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid otp",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeNoToken: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "no token provided",
	},
	CodeInvalidToken: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "invalid token",
	},
	CodeForbidden: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "access denied",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
