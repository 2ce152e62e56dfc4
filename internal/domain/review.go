package domain

import (
	"context"
	"time"
)

const (
	RatingMin         = 1
	RatingMax         = 5
	ThoughtsMaxLength = 2000
)

type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurantId"`
	UserID       string    `gorm:"size:36;not null;index" json:"userId"`
	Thoughts     string    `gorm:"type:text" json:"thoughts"`
	Rating       int       `gorm:"not null" json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Review) TableName() string { return "reviews" }

// ReviewParams 客户端提交的评论字段。UserID 会被忽略，作者始终取自当前会话。
type ReviewParams struct {
	Thoughts string `form:"thoughts" json:"thoughts"`
	Rating   int    `form:"rating" json:"rating"`
	UserID   string `form:"user_id" json:"userId"`
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *Review) error
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]Review, error)
}
