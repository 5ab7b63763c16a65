package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

// Versioned sends a success response tagged with the snapshot versions it was computed from.
// Kiosk clients compare the header to skip re-rendering unchanged data.
func Versioned(c *gin.Context, data interface{}, meta map[string]interface{}, scheduleVersion, substitutionVersion string) {
	if meta == nil {
		meta = make(map[string]interface{}, 2)
	}
	meta["scheduleVersion"] = scheduleVersion
	meta["substitutionVersion"] = substitutionVersion
	c.Header("X-Schedule-Version", scheduleVersion)
	c.Header("X-Substitution-Version", substitutionVersion)
	JSON(c, http.StatusOK, data, meta)
}

// Attachment streams a rendered file download. Non-ASCII names are sent as filename*.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, body)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
