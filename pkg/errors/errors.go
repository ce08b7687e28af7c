package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CodeTransport         = "TRANSPORT_ERROR"
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeMissingListURL    = "MISSING_LIST_URL"
	CodeFieldValidation   = "FIELD_VALIDATION"
	CodeInvalidPhone      = "INVALID_PHONE_NUMBER"
	CodeInvalidPayload    = "INVALID_PAYLOAD"
	CodeInternal          = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Transport reports a failed request or a non-2xx response. status is 0 when
// no response was received.
func Transport(url string, status int, err error) *AppError {
	msg := fmt.Sprintf("request to %s failed", url)
	if status != 0 {
		msg = fmt.Sprintf("request to %s returned status %d", url, status)
	}
	return &AppError{
		Code:    CodeTransport,
		Message: msg,
		Details: map[string]any{
			"url":    url,
			"status": status,
		},
		Err: err,
	}
}

func MissingCredential(capability string) *AppError {
	return &AppError{
		Code:    CodeMissingCredential,
		Message: fmt.Sprintf("no API key for %s", capability),
		Details: map[string]any{"capability": capability},
	}
}

func MissingListURL(listID int) *AppError {
	return &AppError{
		Code:    CodeMissingListURL,
		Message: fmt.Sprintf("list %d has no member url", listID),
		Details: map[string]any{"list_id": listID},
	}
}

func FieldValidation(field, message string, err error) *AppError {
	return &AppError{
		Code:    CodeFieldValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
		Details: map[string]any{"field": field},
		Err:     err,
	}
}

func InvalidPhoneNumber(phone string) *AppError {
	return &AppError{
		Code:    CodeInvalidPhone,
		Message: fmt.Sprintf("invalid phone number: %s", phone),
		Details: map[string]any{"phone": phone},
	}
}

func InvalidPayload(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidPayload,
		Message: fmt.Sprintf("could not decode %s payload", resource),
		Details: map[string]any{"resource": resource},
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// Field returns the offending field name of a FIELD_VALIDATION error.
func Field(err error) string {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return ""
		}
		if appErr.Code == CodeFieldValidation {
			if f, ok := appErr.Details["field"].(string); ok {
				return f
			}
		}
		err = appErr.Err
	}
	return ""
}
