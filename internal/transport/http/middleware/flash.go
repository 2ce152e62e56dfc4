package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	KeyFlash    = "flash"
)

// Flash 取出上一个请求留下的提示，读一次即清除
func Flash() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, err := c.Cookie(flashCookie); err == nil && v != "" {
			if msg, err := url.QueryUnescape(v); err == nil {
				c.Set(KeyFlash, msg)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(flashCookie, "", -1, "/", "", false, true)
		}
		c.Next()
	}
}

// SetFlash 留给重定向后的下一个页面显示
func SetFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, url.QueryEscape(msg), 60, "/", "", false, true)
}

// FlashNow 当前页面直接显示（表单重新渲染时用）
func FlashNow(c *gin.Context, msg string) { c.Set(KeyFlash, msg) }

func FlashMessage(c *gin.Context) string { return c.GetString(KeyFlash) }
