package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-directory/internal/core/auth"
	"restaurant-directory/internal/domain"
)

const (
	KeyUserID      = "userId"
	KeyCurrentUser = "currentUser"

	MsgLoginRequired = "You need to sign in or sign up before continuing."
)

type UserFinder interface {
	Find(ctx context.Context, id string) (*domain.User, error)
}

type SessionOpts struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Sessions 网页端登录态：JWT 放在 HttpOnly cookie 里
type Sessions struct {
	jwt   *auth.JWTer
	users UserFinder
	opts  SessionOpts
	log   *zap.Logger
}

func NewSessions(j *auth.JWTer, users UserFinder, opts SessionOpts, l *zap.Logger) *Sessions {
	if opts.CookieName == "" {
		opts.CookieName = "_restaurants_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = j.TTL
	}
	return &Sessions{jwt: j, users: users, opts: opts, log: l}
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, value, maxAge, "/", "", s.opts.Secure, true)
}

// Load 解析 cookie 并把当前用户放进 context；无效 cookie 直接清掉
func (s *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(s.opts.CookieName)
		if err != nil || tok == "" {
			c.Next()
			return
		}
		claims, err := s.jwt.Parse(tok)
		if err != nil {
			s.setCookie(c, "", -1)
			c.Next()
			return
		}
		u, err := s.users.Find(c.Request.Context(), claims.UID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.setCookie(c, "", -1)
		case err != nil:
			s.log.Warn("session user lookup failed", zap.String("uid", claims.UID), zap.Error(err))
		default:
			setCurrentUser(c, u)
		}
		c.Next()
	}
}

func (s *Sessions) SignIn(c *gin.Context, u *domain.User) error {
	tok, err := s.jwt.Issue(u.ID, u.Email)
	if err != nil {
		return err
	}
	s.setCookie(c, tok, int(s.opts.TTL.Seconds()))
	setCurrentUser(c, u)
	return nil
}

func (s *Sessions) SignOut(c *gin.Context) {
	s.setCookie(c, "", -1)
	c.Set(KeyCurrentUser, (*domain.User)(nil))
	c.Set(KeyUserID, "")
}

func setCurrentUser(c *gin.Context, u *domain.User) {
	c.Set(KeyCurrentUser, u)
	c.Set(KeyUserID, u.ID)
}

// CurrentUser 匿名时返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyCurrentUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// RequireLogin 匿名访问写操作时跳转登录页，不执行后续 handler
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		SetFlash(c, MsgLoginRequired)
		status := http.StatusSeeOther
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			status = http.StatusFound
		}
		c.Redirect(status, loginPath)
		c.Abort()
	}
}
