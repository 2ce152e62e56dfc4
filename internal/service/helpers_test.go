package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant-directory/internal/core/database"
	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/repo"
)

type fixture struct {
	db          *gorm.DB
	restaurants *RestaurantService
	accounts    *AccountService
	user        *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	// 内存库只在有连接时存在，单连接也避免 shared cache 表锁
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + name + "?mode=memory&cache=shared",
		LogLevel:     "silent",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{
		db:          db,
		restaurants: NewRestaurantService(repo.NewRestaurantRepo(db), repo.NewReviewRepo(db), nil, time.Minute, nil),
		accounts:    NewAccountService(repo.NewUserRepo(db), nil),
	}
	f.user = f.signUp(t, "test@test.com")
	return f
}

func (f *fixture) signUp(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.accounts.SignUp(context.Background(), SignUpInput{
		Email: email, Password: "password", PasswordConfirmation: "password",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) countRestaurants(t *testing.T, name string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Restaurant{}).Where("name = ?", name).Count(&n).Error)
	return n
}
