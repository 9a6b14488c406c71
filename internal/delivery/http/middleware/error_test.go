package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"referral-radar/internal/csvimport"
	"referral-radar/internal/feed"
	"referral-radar/internal/pkg/response"
	"referral-radar/internal/store"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func errorApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(zap.NewNop()).Middleware())
	app.Get("/t", h)
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, response.SemanticResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	return resp.StatusCode, body
}

func TestErrorMiddleware_ValidationError(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error {
		return &csvimport.ValidationError{Reason: "CSV file is empty"}
	})

	status, body := doRequest(t, app)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if body.Message != "CSV file is empty" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestErrorMiddleware_ParseErrorCarriesColumns(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error {
		return &csvimport.ParseError{
			Message:        "missing required columns",
			MissingColumns: []string{"Company"},
			FoundHeaders:   []string{"First Name", "Last Name"},
		}
	})

	status, body := doRequest(t, app)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", status)
	}

	data, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data payload, got %T", body.Data)
	}
	missing, ok := data["missing_columns"].([]any)
	if !ok || len(missing) != 1 || missing[0] != "Company" {
		t.Fatalf("missing_columns = %v", data["missing_columns"])
	}
}

func TestErrorMiddleware_StorageError(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error {
		return &store.StorageError{Op: "save connections", Cause: errors.New("disk gone")}
	})

	status, body := doRequest(t, app)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if body.Message != response.MessageInternalServerError {
		t.Fatalf("storage detail must not leak: %q", body.Message)
	}
}

func TestErrorMiddleware_NoCachedCSV(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error { return store.ErrNoCachedCSV })

	status, _ := doRequest(t, app)
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
}

func TestErrorMiddleware_FeedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *feed.APIError
		wantStatus int
	}{
		{"upstream 404", &feed.APIError{Message: "HTTP 404", StatusCode: 404}, fiber.StatusNotFound},
		{"rate limited", &feed.APIError{Message: "HTTP 429", StatusCode: 429, Retryable: true}, fiber.StatusTooManyRequests},
		{"server error", &feed.APIError{Message: "HTTP 500", StatusCode: 500, Retryable: true}, fiber.StatusBadGateway},
		{"transport failure", &feed.APIError{Message: "failed to fetch"}, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := errorApp(func(c fiber.Ctx) error { return tt.err })
			status, _ := doRequest(t, app)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
		})
	}
}

func TestErrorMiddleware_AppError(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "company query parameter is required", nil, nil)
	})

	status, body := doRequest(t, app)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if body.Message != "company query parameter is required" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestErrorMiddleware_PanicRecovers(t *testing.T) {
	app := errorApp(func(c fiber.Ctx) error { panic("boom") })

	status, _ := doRequest(t, app)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
}
