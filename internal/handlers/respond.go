package handlers

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"mailroom/internal/apperrors"
	"mailroom/internal/utils/logger"
)

var log = logger.New("HTTP")

// emptyData keeps failure bodies shaped like success bodies: data is
// always present.
var emptyData = []interface{}{}

// ErrorResponse is the failure body of every endpoint. Result and Message
// are set on list and campaign endpoints only.
type ErrorResponse struct {
	Result  string        `json:"result,omitempty"`
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error"`
	Data    []interface{} `json:"data"`
}

type DataResponse struct {
	Data interface{} `json:"data"`
}

// Data writes a subscription endpoint success body.
func Data(c echo.Context, payload interface{}) error {
	return c.JSON(http.StatusOK, DataResponse{Data: payload})
}

// Success writes a list or campaign endpoint success body.
func Success(c echo.Context, fields map[string]interface{}) error {
	body := map[string]interface{}{"result": "success"}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// usesResultEnvelope reports whether the route answers with the
// result/message envelope.
func usesResultEnvelope(path string) bool {
	return strings.HasPrefix(path, "/api/lists") || strings.HasPrefix(path, "/api/campaigns")
}

// Fail writes err with its mapped status. message overrides the
// caller-facing text of the result envelope when set.
func Fail(c echo.Context, err error, message string) error {
	status := apperrors.HTTPStatus(err)
	msg := apperrors.Message(err)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if text, ok := httpErr.Message.(string); ok {
			msg = text
		} else {
			msg = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error("%s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	body := ErrorResponse{Error: msg, Data: emptyData}
	if usesResultEnvelope(c.Path()) {
		body.Result = "fails"
		body.Message = msg
		if message != "" {
			body.Message = message
		}
	}
	return c.JSON(status, body)
}

// ErrorHandler renders errors returned by handlers and middleware.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := Fail(c, err, ""); writeErr != nil {
		log.Warn("failed to write error response: %v", writeErr)
	}
}
