package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"restaurant-directory/internal/domain"
)

// BuildReview 构造挂在 restaurant 下的评论，作者固定为 user。
// p.UserID 由客户端提交，一律不采信。
func BuildReview(r *domain.Restaurant, p domain.ReviewParams, user *domain.User) *domain.Review {
	return &domain.Review{
		RestaurantID: r.ID,
		UserID:       user.ID,
		Thoughts:     strings.TrimSpace(p.Thoughts),
		Rating:       p.Rating,
	}
}

func ValidateReview(rv *domain.Review) error {
	ve := &domain.ValidationError{}
	if rv.Rating < domain.RatingMin || rv.Rating > domain.RatingMax {
		ve.Add(fmt.Sprintf("Rating must be between %d and %d", domain.RatingMin, domain.RatingMax))
	}
	if utf8.RuneCountInString(rv.Thoughts) > domain.ThoughtsMaxLength {
		ve.Add(fmt.Sprintf("Thoughts is too long (maximum is %d characters)", domain.ThoughtsMaxLength))
	}
	return ve.OrNil()
}
