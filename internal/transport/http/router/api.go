package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/service"
	httpez "restaurant-directory/internal/transport/http/ez"
	"restaurant-directory/internal/transport/http/handler"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

type userOut struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenOut struct {
	Token string  `json:"token"`
	User  userOut `json:"user"`
}

func toUserOut(u *domain.User) userOut { return userOut{ID: u.ID, Email: u.Email} }

// ---------- /auth/register /auth/login /me ----------

func mountAuthActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api, d.Log)
	ezAuth := httpez.New(authed, d.Log)

	issue := func(u *domain.User) (tokenOut, error) {
		tok, err := d.JWT.Issue(u.ID, u.Email)
		if err != nil {
			return tokenOut{}, httpez.Internal("issue token failed", err)
		}
		return tokenOut{Token: tok, User: toUserOut(u)}, nil
	}

	type registerIn struct {
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"passwordConfirmation"`
	}
	httpez.RegisterAction(ezPublic, httpez.Action[registerIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (tokenOut, error) {
			u, err := d.Accounts.SignUp(c.Request.Context(), service.SignUpInput{
				Email:                in.Email,
				Password:             in.Password,
				PasswordConfirmation: in.PasswordConfirmation,
			})
			if err != nil {
				return tokenOut{}, err
			}
			return issue(u)
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction(ezPublic, httpez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			u, err := d.Accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return issue(u)
		},
	})

	httpez.RegisterAction(ezAuth, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			return toUserOut(mdw.CurrentUser(c)), nil
		},
	})
}

// ---------- /restaurants ----------

type listOut struct {
	Total int                 `json:"total"`
	Items []domain.Restaurant `json:"items"`
}

type deletedOut struct {
	ID uint `json:"id"`
}

func apiID(c *gin.Context) (uint, error) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return 0, httpez.BadRequest("invalid restaurant id")
	}
	return id, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type listQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

// paginate 按 offset/limit 截取，total 是截取前的总数
func paginate(all []domain.Restaurant, q listQ) listOut {
	if q.Limit <= 0 || q.Limit > maxPageSize {
		q.Limit = defaultPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	out := listOut{Total: len(all), Items: []domain.Restaurant{}}
	if q.Offset >= len(all) {
		return out
	}
	out.Items = all[q.Offset:min(q.Offset+q.Limit, len(all))]
	return out
}

func mountRestaurantActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api, d.Log)
	ezAuth := httpez.New(authed, d.Log)
	svc := d.Restaurants

	httpez.RegisterAction(ezPublic, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/restaurants",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			items, err := svc.List(c.Request.Context())
			if err != nil {
				return listOut{}, err
			}
			return paginate(items, *in), nil
		},
	})

	httpez.RegisterAction(ezPublic, httpez.Action[struct{}, *domain.Restaurant]{
		Method: http.MethodGet,
		Path:   "/restaurants/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Restaurant, error) {
			id, err := apiID(c)
			if err != nil {
				return nil, err
			}
			return svc.Get(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(ezAuth, httpez.Action[domain.RestaurantInput, *domain.Restaurant]{
		Method: http.MethodPost,
		Path:   "/restaurants",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.RestaurantInput) (*domain.Restaurant, error) {
			return svc.Create(c.Request.Context(), *in, mdw.CurrentUser(c))
		},
	})

	update := func(c *gin.Context, in *domain.RestaurantInput) (*domain.Restaurant, error) {
		id, err := apiID(c)
		if err != nil {
			return nil, err
		}
		return svc.Update(c.Request.Context(), id, *in)
	}
	for _, m := range []string{http.MethodPatch, http.MethodPut} {
		httpez.RegisterAction(ezAuth, httpez.Action[domain.RestaurantInput, *domain.Restaurant]{
			Method:  m,
			Path:    "/restaurants/:id",
			Binder:  httpez.BindJSON,
			Auth:    true,
			Handler: update,
		})
	}

	httpez.RegisterAction(ezAuth, httpez.Action[struct{}, deletedOut]{
		Method: http.MethodDelete,
		Path:   "/restaurants/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (deletedOut, error) {
			id, err := apiID(c)
			if err != nil {
				return deletedOut{}, err
			}
			if err := svc.Delete(c.Request.Context(), id); err != nil {
				return deletedOut{}, err
			}
			return deletedOut{ID: id}, nil
		},
	})

	httpez.RegisterAction(ezAuth, httpez.Action[domain.ReviewParams, *domain.Review]{
		Method: http.MethodPost,
		Path:   "/restaurants/:id/reviews",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.ReviewParams) (*domain.Review, error) {
			id, err := apiID(c)
			if err != nil {
				return nil, err
			}
			return svc.AddReview(c.Request.Context(), id, *in, mdw.CurrentUser(c))
		},
	})
}
