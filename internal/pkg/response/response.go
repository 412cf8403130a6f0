package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portal-space/core/internal/pkg/apperrors"
)

// Every endpoint answers with the same envelope: code 0 on success, -1 on
// failure. Failure responses carry an empty object as data so clients never
// have to null-check.
type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Paged is the data payload for list endpoints.
type Paged struct {
	Count int64       `json:"count"`
	Rows  interface{} `json:"rows"`
}

// OK sends a success envelope with the given payload.
func OK(c *gin.Context, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, envelope{Code: 0, Message: message, Data: data})
}

// Fail sends a failure envelope with the given HTTP status.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Code: -1, Message: message, Data: gin.H{}})
}

// BadRequest sends a 400 failure envelope.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 failure envelope.
func Unauthorized(c *gin.Context) {
	Fail(c, http.StatusUnauthorized, "authentication required")
}

// Forbidden sends a 403 failure envelope.
func Forbidden(c *gin.Context) {
	Fail(c, http.StatusForbidden, "insufficient role")
}

// Error maps a classified application error to its HTTP status and sends the
// failure envelope. Unknown errors become 500 with a generic message.
func Error(c *gin.Context, err error) {
	Fail(c, statusOf(apperrors.KindOf(err)), apperrors.ClientMessage(err))
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindAssetUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
