package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// AppError - ошибка с кодом для ответа API
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	if len(e.Details) == 0 {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Details)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

// WithDetails возвращает копию ошибки с деталями; исходные sentinel-ошибки не изменяются
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is позволяет сравнивать копии sentinel-ошибок через errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// From приводит произвольную ошибку к AppError.
// Истечение и отмена контекста запроса получают собственные коды, остальное - 500
func From(err error) *AppError {
	var appErr *AppError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return ErrResolveTimeout
	case stderrors.Is(err, context.Canceled):
		return ErrRequestCanceled
	default:
		return ErrInternalServer
	}
}
