package guard

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// StatusFail is the envelope marker for every non-2xx response body.
const StatusFail = "fail"

// Fail writes the machine-readable failure envelope shared by every guard
// and controller: {"status":"fail","error":<message>}.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": StatusFail,
		"error":  message,
	})
}

// RespondError converts an error into the failure envelope. Rich errors map
// through their code and public message; anything else degrades to a
// generic 500 so no internal detail leaks to the caller.
func RespondError(c *fiber.Ctx, err error) error {
	status, message := httpOutcome(err)
	return Fail(c, status, message)
}

func httpOutcome(err error) (int, string) {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError, "Internal server error"
	}

	status := richErr.Code
	if status < http.StatusBadRequest || status > 599 {
		status = statusForCategory(richErr.Category)
	}

	message := richErr.Message
	if status >= http.StatusInternalServerError || message == "" {
		// 5xx causes are logged, never returned.
		message = "Internal server error"
	}
	return status, message
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
