package domain

import (
	"context"
	"time"
)

// NameMinLength 按字符计数
const NameMinLength = 3

type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      string    `gorm:"size:36;index;not null" json:"userId"`
	Reviews     []Review  `gorm:"foreignKey:RestaurantID" json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Restaurant) TableName() string { return "restaurants" }

// RestaurantInput 表单/JSON 可写字段
type RestaurantInput struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *Restaurant) error
	Update(ctx context.Context, r *Restaurant) error
	// FindByID 预加载 Reviews；查不到返回 (nil, nil)
	FindByID(ctx context.Context, id uint) (*Restaurant, error)
	List(ctx context.Context) ([]Restaurant, error)
	// NameTaken excludeID 为 0 时不排除任何记录
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	// DeleteCascade 同一事务内先删 reviews 再删 restaurant；返回是否删除了餐厅
	DeleteCascade(ctx context.Context, id uint) (bool, error)
}
