package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "restaurant-directory/internal/transport/http/response"
)

// IsAPI /api/ 前缀走 JSON 信封，其余是网页
func IsAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// abort API 沿用 200 + 业务码；网页直接返回 HTTP 状态码
func abort(c *gin.Context, status int, msg string) {
	if IsAPI(c) {
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(status, msg))
		return
	}
	c.Abort()
	c.String(status, msg)
}
