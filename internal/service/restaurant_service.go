package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"restaurant-directory/internal/core/cache"
	"restaurant-directory/internal/domain"
)

type RestaurantService struct {
	restaurants domain.RestaurantRepository
	reviews     domain.ReviewRepository
	cache       *cache.Cache
	ttl         time.Duration
	log         *zap.Logger
}

// NewRestaurantService c 可以为 nil（不走缓存）
func NewRestaurantService(rr domain.RestaurantRepository, rv domain.ReviewRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *RestaurantService {
	if l == nil {
		l = zap.NewNop()
	}
	return &RestaurantService{restaurants: rr, reviews: rv, cache: c, ttl: ttl, log: l}
}

func detailKey(id uint) string { return fmt.Sprintf("restaurant:%d", id) }

// validate 名称长度 + 唯一性；excludeID 为更新时的自身 id
func (s *RestaurantService) validate(ctx context.Context, name string, excludeID uint) error {
	ve := &domain.ValidationError{}
	if utf8.RuneCountInString(name) < domain.NameMinLength {
		ve.Add(fmt.Sprintf("Name is too short (minimum is %d characters)", domain.NameMinLength))
	}
	if name != "" {
		taken, err := s.restaurants.NameTaken(ctx, name, excludeID)
		if err != nil {
			return fmt.Errorf("check name: %w", err)
		}
		if taken {
			ve.Add("Name has already been taken")
		}
	}
	return ve.OrNil()
}

func (s *RestaurantService) Create(ctx context.Context, in domain.RestaurantInput, owner *domain.User) (*domain.Restaurant, error) {
	if owner == nil || owner.ID == "" {
		return nil, fmt.Errorf("create restaurant: missing owner")
	}
	name := strings.TrimSpace(in.Name)
	if err := s.validate(ctx, name, 0); err != nil {
		return nil, err
	}
	r := &domain.Restaurant{Name: name, Description: strings.TrimSpace(in.Description), UserID: owner.ID}
	if err := s.restaurants.Create(ctx, r); err != nil {
		// 并发下两个请求都通过了预检查，唯一索引兜底
		if isDupKey(err) {
			return nil, domain.NewValidationError("Name has already been taken")
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	s.log.Info("restaurant created", zap.Uint("id", r.ID), zap.String("name", r.Name), zap.String("owner", owner.ID))
	return r, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in domain.RestaurantInput) (*domain.Restaurant, error) {
	r, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load restaurant %d: %w", id, err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if err := s.validate(ctx, name, id); err != nil {
		return nil, err
	}
	r.Name = name
	r.Description = strings.TrimSpace(in.Description)
	if err := s.restaurants.Update(ctx, r); err != nil {
		if isDupKey(err) {
			return nil, domain.NewValidationError("Name has already been taken")
		}
		return nil, fmt.Errorf("update restaurant %d: %w", id, err)
	}
	s.cache.Delete(ctx, detailKey(id))
	s.log.Info("restaurant updated", zap.Uint("id", id), zap.String("name", r.Name))
	return r, nil
}

// Delete 评论和餐厅在同一事务里删除，不会留下孤儿评论
func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	ok, err := s.restaurants.DeleteCascade(ctx, id)
	if err != nil {
		return fmt.Errorf("delete restaurant %d: %w", id, err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.cache.Delete(ctx, detailKey(id))
	s.log.Info("restaurant deleted", zap.Uint("id", id))
	return nil
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	out, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	if out == nil {
		out = []domain.Restaurant{}
	}
	return out, nil
}

// Get 带评论的详情，配置了 redis 时读穿缓存
func (s *RestaurantService) Get(ctx context.Context, id uint) (*domain.Restaurant, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, detailKey(id), s.ttl, func(ctx context.Context) (*domain.Restaurant, error) {
		r, err := s.restaurants.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load restaurant %d: %w", id, err)
		}
		if r == nil {
			return nil, domain.ErrNotFound
		}
		return r, nil
	})
}

// AddReview 作者取自 user，忽略 params 里的 UserID
func (s *RestaurantService) AddReview(ctx context.Context, restaurantID uint, p domain.ReviewParams, user *domain.User) (*domain.Review, error) {
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("add review: missing user")
	}
	r, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant %d: %w", restaurantID, err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	rv := BuildReview(r, p, user)
	if err := ValidateReview(rv); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.cache.Delete(ctx, detailKey(restaurantID))
	s.log.Info("review created", zap.Uint("restaurant_id", restaurantID), zap.Uint("id", rv.ID), zap.String("author", user.ID))
	return rv, nil
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
