package middleware

import (
	"errors"

	"referral-radar/internal/csvimport"
	"referral-radar/internal/feed"
	"referral-radar/internal/pkg/response"
	"referral-radar/internal/store"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// ErrorMiddleware turns the typed errors of the inner layers into the JSON
// envelope. Import faults map to 4xx, storage faults to 500, and upstream feed
// faults to 404/429/502 depending on what the fetch client observed.
type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", zap.Any("panic", r))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := m.normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		}
		return response.Error(c, status, msg, data)
	}
}

func (m *ErrorMiddleware) normalizeError(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, appErr.Data
	}

	var valErr *csvimport.ValidationError
	if errors.As(err, &valErr) {
		return fiber.StatusBadRequest, valErr.Error(), nil
	}

	var parseErr *csvimport.ParseError
	if errors.As(err, &parseErr) {
		var data any
		if len(parseErr.MissingColumns) > 0 {
			data = fiber.Map{
				"missing_columns": parseErr.MissingColumns,
				"found_headers":   parseErr.FoundHeaders,
			}
		}
		return fiber.StatusUnprocessableEntity, parseErr.Error(), data
	}

	if errors.Is(err, store.ErrNoCachedCSV) {
		return fiber.StatusNotFound, "no cached CSV data found", nil
	}

	var storageErr *store.StorageError
	if errors.As(err, &storageErr) {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var apiErr *feed.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == fiber.StatusNotFound:
			return fiber.StatusNotFound, "job listings not found upstream", nil
		case apiErr.StatusCode == fiber.StatusTooManyRequests:
			return fiber.StatusTooManyRequests, "job listings feed is rate limiting requests", nil
		default:
			return fiber.StatusBadGateway, "job listings feed is unavailable", nil
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
