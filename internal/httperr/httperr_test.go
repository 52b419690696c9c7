package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fiber.NewError(fiber.StatusUnauthorized, "no"), fiber.StatusUnauthorized},
		{fmt.Errorf("cost: %w", models.ErrInvalidInput), fiber.StatusBadRequest},
		{fmt.Errorf("transaction x: %w", models.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("twice: %w", models.ErrConflict), fiber.StatusConflict},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHandlerRendersMessage(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(slog.New(slog.NewTextHandler(io.Discard, nil)))})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("mongo: server selection timeout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "mongo: server selection timeout" {
		t.Fatalf("message = %q", body["message"])
	}
}
