package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/service"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

// Restaurants 页面和 API 共用的餐厅操作，*service.RestaurantService 实现
type Restaurants interface {
	Create(ctx context.Context, in domain.RestaurantInput, owner *domain.User) (*domain.Restaurant, error)
	Update(ctx context.Context, id uint, in domain.RestaurantInput) (*domain.Restaurant, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]domain.Restaurant, error)
	Get(ctx context.Context, id uint) (*domain.Restaurant, error)
	AddReview(ctx context.Context, restaurantID uint, p domain.ReviewParams, user *domain.User) (*domain.Review, error)
}

// Accounts *service.AccountService 实现
type Accounts interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Find(ctx context.Context, id string) (*domain.User, error)
}

// render 给每个页面补上导航栏需要的当前用户和 flash
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = mdw.CurrentUser(c)
	data["Flash"] = mdw.FlashMessage(c)
	c.HTML(status, name, data)
}

func NotFoundPage(c *gin.Context) {
	render(c, http.StatusNotFound, "errors/error", gin.H{
		"Title":   "Not found",
		"Heading": "The page you were looking for doesn't exist.",
	})
}

func renderError(c *gin.Context, l *zap.Logger, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		NotFoundPage(c)
		return
	}
	l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "errors/error", gin.H{
		"Title":   "Error",
		"Heading": "We're sorry, but something went wrong.",
	})
}

// ParseID 非法 id 一律按不存在处理
func ParseID(c *gin.Context, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(id), nil
}

func restaurantPath(id uint) string { return "/restaurants/" + strconv.FormatUint(uint64(id), 10) }
