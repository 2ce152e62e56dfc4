package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"restaurant-directory/internal/core/auth"
	"restaurant-directory/internal/core/config"
	"restaurant-directory/internal/transport/http/handler"
	mdw "restaurant-directory/internal/transport/http/middleware"
	resp "restaurant-directory/internal/transport/http/response"
	"restaurant-directory/internal/transport/http/view"
)

type Deps struct {
	Log         *zap.Logger
	JWT         *auth.JWTer
	Accounts    handler.Accounts
	Restaurants handler.Restaurants
	Session     mdw.SessionOpts
	Limits      config.Limits
}

// NewEngine 网页 + /api/v1 共用一个 engine；外层还要包 server.MethodOverride
func NewEngine(d Deps) (*gin.Engine, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// 先挂日志和 recovery，panic 也能记到 access log
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
		mdw.Recovery(d.Log),
	)
	r.Use(limits(d.Limits)...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		if mdw.IsAPI(c) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		handler.NotFoundPage(c)
	})

	sessions := mdw.NewSessions(d.JWT, d.Accounts, d.Session, d.Log)
	mountWeb(r, d, sessions)

	// CORS 只给 API；网页表单走同源 cookie
	api := r.Group("/api/v1", cors.Default())
	// 预检请求没有对应路由，挂一个兜底让分组中间件能跑到
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	authed := api.Group("", mdw.AuthJWT(d.JWT, d.Accounts))
	mountAuthActions(api, authed, d)
	mountRestaurantActions(api, authed, d)

	return r, nil
}

// limits 配置为 0 的项不启用
func limits(l config.Limits) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if l.RPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(l.RPS), max(l.Burst, 1)))
	}
	if l.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(l.PerIPRPS), max(l.PerIPBurst, 1), 10*time.Minute))
	}
	if l.Concurrency > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(l.Concurrency))
	}
	if l.MaxBodyMB > 0 {
		hs = append(hs, mdw.MaxBodyBytes(l.MaxBodyMB<<20))
	}
	if l.TimeoutSec > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(l.TimeoutSec)*time.Second))
	}
	return hs
}
