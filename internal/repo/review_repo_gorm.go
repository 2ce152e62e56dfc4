package repo

import (
	"context"

	"gorm.io/gorm"

	"restaurant-directory/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id ASC").Find(&out).Error
	return out, err
}
