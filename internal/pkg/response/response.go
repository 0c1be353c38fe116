package response

import (
	"botwatch/internal/dto"
	cErr "botwatch/internal/pkg/error"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON 直接輸出；各端點回應格式不同，不再包一層共用 envelope
func JSON(c *gin.Context, httpCode int, data any) {
	c.JSON(httpCode, data)
	c.Abort()
}

func Success(c *gin.Context, data any) {
	JSON(c, http.StatusOK, data)
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode int, msg string, desc string) {
	c.JSON(httpCode, dto.ErrorResponseDto{
		Error:     msg,
		Message:   desc,
		RequestID: requestID,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, requestID string, err error) {
	v, ok := err.(*cErr.Error)
	if ok {
		Fail(c, requestID, v.HttpCode(), v.Error(), v.ErrorDesc())
	} else {
		Fail(c, requestID, http.StatusInternalServerError, "internal-server-error", err.Error())
	}
}
