package handlers

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"mailroom/internal/apperrors"
	"mailroom/internal/intake"
)

// bindRaw reads a JSON or form body into a loosely typed map. Numbers stay
// json.Number so they keep their textual form.
func bindRaw(c echo.Context) (intake.RawInput, error) {
	req := c.Request()
	raw := intake.RawInput{}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		dec := json.NewDecoder(req.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil && err != io.EOF {
			return nil, apperrors.Validation("Invalid JSON body")
		}
		return raw, nil
	}

	// FormParams parses the body; PostForm leaves out the query string
	if _, err := c.FormParams(); err != nil {
		return nil, apperrors.Validation("Invalid form body")
	}
	for key, values := range req.PostForm {
		switch len(values) {
		case 0:
			raw[key] = ""
		case 1:
			raw[key] = values[0]
		default:
			raw[key] = values
		}
	}
	return raw, nil
}
