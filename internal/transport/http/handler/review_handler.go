package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-directory/internal/domain"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

const MsgReviewCreated = "Review was successfully created."

type ReviewHandler struct {
	svc Restaurants
	log *zap.Logger
}

func NewReviewHandler(svc Restaurants, l *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: l}
}

func (h *ReviewHandler) New(c *gin.Context) {
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
	h.form(c, http.StatusOK, r, domain.Review{Rating: domain.RatingMax}, nil)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		NotFoundPage(c)
		return
	}
	var p domain.ReviewParams
	if err := c.ShouldBind(&p); err != nil {
		p = domain.ReviewParams{}
	}
	_, err = h.svc.AddReview(c.Request.Context(), id, p, mdw.CurrentUser(c))
	if ve, ok := domain.IsValidation(err); ok {
		r, gerr := h.svc.Get(c.Request.Context(), id)
		if gerr != nil {
			renderError(c, h.log, gerr)
			return
		}
		h.form(c, http.StatusUnprocessableEntity, r, domain.Review{Thoughts: p.Thoughts, Rating: p.Rating}, ve.Messages)
		return
	}
	if err != nil {
		renderError(c, h.log, err)
		return
	}
	mdw.SetFlash(c, MsgReviewCreated)
	c.Redirect(http.StatusSeeOther, restaurantPath(id))
}

func (h *ReviewHandler) form(c *gin.Context, status int, r *domain.Restaurant, rv domain.Review, errs []string) {
	render(c, status, "reviews/new", gin.H{
		"Title":      "Review " + r.Name,
		"Restaurant": r,
		"Review":     rv,
		"Subject":    "review",
		"Errors":     errs,
	})
}
