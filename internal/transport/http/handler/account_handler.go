package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/service"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

const (
	MsgSignedIn  = "Signed in successfully."
	MsgSignedUp  = "Welcome! You have signed up successfully."
	MsgSignedOut = "Signed out successfully."
)

type AccountHandler struct {
	accounts Accounts
	sessions *mdw.Sessions
	log      *zap.Logger
}

func NewAccountHandler(a Accounts, s *mdw.Sessions, l *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: a, sessions: s, log: l}
}

type signInForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AccountHandler) SignInForm(c *gin.Context) {
	if mdw.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/restaurants")
		return
	}
	render(c, http.StatusOK, "users/sign_in", gin.H{"Title": "Log in"})
}

func (h *AccountHandler) SignIn(c *gin.Context) {
	var in signInForm
	_ = c.ShouldBind(&in)
	u, err := h.accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		mdw.FlashNow(c, err.Error())
		render(c, http.StatusUnprocessableEntity, "users/sign_in", gin.H{"Title": "Log in", "Email": in.Email})
		return
	}
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	if err := h.sessions.SignIn(c, u); err != nil {
		renderError(c, h.log, err)
		return
	}
	mdw.SetFlash(c, MsgSignedIn)
	c.Redirect(http.StatusSeeOther, "/restaurants")
}

func (h *AccountHandler) SignUpForm(c *gin.Context) {
	if mdw.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/restaurants")
		return
	}
	render(c, http.StatusOK, "users/sign_up", gin.H{"Title": "Sign up", "Subject": "user"})
}

func (h *AccountHandler) SignUp(c *gin.Context) {
	var in service.SignUpInput
	_ = c.ShouldBind(&in)
	u, err := h.accounts.SignUp(c.Request.Context(), in)
	if ve, ok := domain.IsValidation(err); ok {
		render(c, http.StatusUnprocessableEntity, "users/sign_up", gin.H{
			"Title":   "Sign up",
			"Email":   in.Email,
			"Subject": "user",
			"Errors":  ve.Messages,
		})
		return
	}
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	if err := h.sessions.SignIn(c, u); err != nil {
		renderError(c, h.log, err)
		return
	}
	h.log.Info("user signed up", zap.String("uid", u.ID))
	mdw.SetFlash(c, MsgSignedUp)
	c.Redirect(http.StatusSeeOther, "/restaurants")
}

func (h *AccountHandler) SignOut(c *gin.Context) {
	h.sessions.SignOut(c)
	mdw.SetFlash(c, MsgSignedOut)
	c.Redirect(http.StatusSeeOther, "/restaurants")
}
