package delivery_http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
)

type errorResponse struct {
	Msg    string                       `json:"msg"`
	Errors []custom_errors.FieldMessage `json:"errors,omitempty"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// errorHandler writes every fault as {msg, errors?} with the fault status.
// Router errors raised by echo keep their own status.
func errorHandler(log ports.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			msg := http.StatusText(httpErr.Code)
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			}
			writeError(c, log, httpErr.Code, errorResponse{Msg: msg})
			return
		}

		fault := custom_errors.Normalize(err)
		if fault.Status >= http.StatusInternalServerError {
			log.Error("Request failed", slog.String("path", c.Path()), slog.String("error", err.Error()))
		}
		writeError(c, log, fault.Status, errorResponse{Msg: fault.Message, Errors: fault.Data})
	}
}

func writeError(c echo.Context, log ports.Logger, status int, body errorResponse) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error("Failed to write error response", slog.String("error", err.Error()))
	}
}

type requestValidator struct {
	validate *validator.Validate
}

// Validate turns struct tag failures into a validation fault so they reach
// clients in the same shape as workflow validation.
func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	conditions := make([]custom_errors.Condition, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		conditions = append(conditions, custom_errors.When(true, fieldMessage(fe)))
	}
	return custom_errors.Validate(conditions...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return "Invalid E-mail"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bindAndValidate binds path, query and body into req and checks its tags.
// Malformed bodies become 400 faults.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return custom_errors.New("Invalid request", http.StatusBadRequest)
	}
	return c.Validate(req)
}
