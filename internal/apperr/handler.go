package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Title  string       `json:"title,omitempty" example:"validation error"`
	Error  string       `json:"error" example:"invalid request"`
	Issues []apis.Issue `json:"issues,omitempty"`
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			resp := ErrorResponse{Title: "validation error", Error: ve.Error()}
			var de *apis.DocumentError
			if errors.As(err, &de) {
				resp.Error = ve.Message
				resp.Issues = de.Issues
			}
			_ = c.JSON(http.StatusBadRequest, resp)
			return
		}

		var ce *ContractError
		if errors.As(err, &ce) {
			_ = c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Title: "contract violation", Error: ce.Message})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, ErrorResponse{Error: msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
