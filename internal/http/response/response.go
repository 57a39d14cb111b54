package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atmohq/atmo-backend/internal/platform/apierr"
)

// ErrorBody is the flat error shape every client of this API reads.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondFailure maps err to a response. An *apierr.Error keeps its status and
// code. Its own message wins over generic; otherwise generic is shown and the
// cause goes to details. Unauthorized responses never carry details.
func RespondFailure(c *gin.Context, err error, fallback int, generic string) {
	status := fallback
	body := ErrorBody{Error: generic}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		status = ae.Status
		body.Code = ae.Code
		if ae.Message != "" {
			body.Error = ae.Message
		}
		if ae.Err != nil {
			body.Details = ae.Err.Error()
		}
	} else if err != nil {
		body.Details = err.Error()
	}
	if body.Error == "" {
		body.Error, body.Details = body.Details, ""
	}
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}
	if status == http.StatusUnauthorized {
		body.Details = ""
	}
	c.AbortWithStatusJSON(status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
