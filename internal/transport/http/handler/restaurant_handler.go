package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-directory/internal/domain"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

const (
	MsgRestaurantCreated = "Restaurant created successfully"
	MsgRestaurantUpdated = "Restaurant updated successfully"
	MsgRestaurantDeleted = "Restaurant deleted successfully"
)

type RestaurantHandler struct {
	svc Restaurants
	log *zap.Logger
}

func NewRestaurantHandler(svc Restaurants, l *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{svc: svc, log: l}
}

func (h *RestaurantHandler) Index(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "restaurants/index", gin.H{"Title": "Restaurants", "Restaurants": list})
}

func (h *RestaurantHandler) Show(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		NotFoundPage(c)
		return
	}
	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	render(c, http.StatusOK, "restaurants/show", gin.H{"Title": r.Name, "Restaurant": r})
}

func (h *RestaurantHandler) New(c *gin.Context) {
	h.form(c, http.StatusOK, domain.Restaurant{}, nil)
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var in domain.RestaurantInput
	if err := c.ShouldBind(&in); err != nil {
		h.form(c, http.StatusBadRequest, domain.Restaurant{}, []string{"Form could not be read"})
		return
	}
	_, err := h.svc.Create(c.Request.Context(), in, mdw.CurrentUser(c))
	if ve, ok := domain.IsValidation(err); ok {
		h.form(c, http.StatusUnprocessableEntity, domain.Restaurant{Name: in.Name, Description: in.Description}, ve.Messages)
		return
	}
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	mdw.SetFlash(c, MsgRestaurantCreated)
	c.Redirect(http.StatusSeeOther, "/restaurants")
}

func (h *RestaurantHandler) Edit(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		NotFoundPage(c)
		return
	}
	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	h.form(c, http.StatusOK, *r, nil)
}

func (h *RestaurantHandler) Update(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		NotFoundPage(c)
		return
	}
	var in domain.RestaurantInput
	if err := c.ShouldBind(&in); err != nil {
		h.form(c, http.StatusBadRequest, domain.Restaurant{ID: id}, []string{"Form could not be read"})
		return
	}
	_, err = h.svc.Update(c.Request.Context(), id, in)
	if ve, ok := domain.IsValidation(err); ok {
		h.form(c, http.StatusUnprocessableEntity, domain.Restaurant{ID: id, Name: in.Name, Description: in.Description}, ve.Messages)
		return
	}
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	mdw.SetFlash(c, MsgRestaurantUpdated)
	c.Redirect(http.StatusSeeOther, restaurantPath(id))
}

func (h *RestaurantHandler) Destroy(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		NotFoundPage(c)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, h.log, err)
		return
	}
	mdw.SetFlash(c, MsgRestaurantDeleted)
	c.Redirect(http.StatusSeeOther, "/restaurants")
}

// form 新建和编辑共用一个模板，ID 为 0 时是新建
func (h *RestaurantHandler) form(c *gin.Context, status int, r domain.Restaurant, errs []string) {
	action, title := "/restaurants", "New restaurant"
	if r.ID != 0 {
		action, title = restaurantPath(r.ID), "Edit restaurant"
	}
	render(c, status, "restaurants/form", gin.H{
		"Title":      title,
		"Restaurant": r,
		"Action":     action,
		"Subject":    "restaurant",
		"Errors":     errs,
	})
}
