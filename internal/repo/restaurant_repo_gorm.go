package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-directory/internal/domain"
)

type RestaurantRepo struct{ db *gorm.DB }

func NewRestaurantRepo(db *gorm.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

func (r *RestaurantRepo) Create(ctx context.Context, m *domain.Restaurant) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update 只写可编辑列；description 允许清空，所以显式 Select
func (r *RestaurantRepo) Update(ctx context.Context, m *domain.Restaurant) error {
	return r.db.WithContext(ctx).Model(&domain.Restaurant{ID: m.ID}).
		Select("name", "description").
		Updates(domain.Restaurant{Name: m.Name, Description: m.Description}).Error
}

func (r *RestaurantRepo) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	var m domain.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RestaurantRepo) List(ctx context.Context) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RestaurantRepo) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Restaurant{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RestaurantRepo) DeleteCascade(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Restaurant{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
