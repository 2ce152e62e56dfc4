package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-directory/internal/transport/http/handler"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

const signInPath = "/users/sign_in"

func mountWeb(r *gin.Engine, d Deps, sessions *mdw.Sessions) {
	web := r.Group("/", mdw.Flash(), sessions.Load())
	login := mdw.RequireLogin(signInPath)

	rh := handler.NewRestaurantHandler(d.Restaurants, d.Log)
	rv := handler.NewReviewHandler(d.Restaurants, d.Log)
	ah := handler.NewAccountHandler(d.Accounts, sessions, d.Log)

	web.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/restaurants") })

	web.GET("/restaurants", rh.Index)
	web.GET("/restaurants/new", login, rh.New)
	web.POST("/restaurants", login, rh.Create)
	web.GET("/restaurants/:id", rh.Show)
	web.GET("/restaurants/:id/edit", login, rh.Edit)
	web.PATCH("/restaurants/:id", login, rh.Update)
	web.PUT("/restaurants/:id", login, rh.Update)
	web.DELETE("/restaurants/:id", login, rh.Destroy)

	web.GET("/restaurants/:id/reviews/new", login, rv.New)
	web.POST("/restaurants/:id/reviews", login, rv.Create)

	web.GET("/users/sign_up", ah.SignUpForm)
	web.POST("/users/sign_up", ah.SignUp)
	web.GET(signInPath, ah.SignInForm)
	web.POST(signInPath, ah.SignIn)
	web.DELETE("/users/sign_out", ah.SignOut)
}
