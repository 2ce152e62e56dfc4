package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant-directory/internal/core/auth"
	"restaurant-directory/internal/core/database"
	"restaurant-directory/internal/core/server"
	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/repo"
	"restaurant-directory/internal/service"
	mdw "restaurant-directory/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

const (
	testEmail    = "test@test.com"
	testPassword = "password"
)

type site struct {
	t           *testing.T
	db          *gorm.DB
	srv         *httptest.Server
	client      *http.Client
	jwt         *auth.JWTer
	restaurants *service.RestaurantService
	user        *domain.User
}

func newSite(t *testing.T) *site {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:router_" + name + "?mode=memory&cache=shared",
		LogLevel:     "silent",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)

	accounts := service.NewAccountService(repo.NewUserRepo(db), nil)
	restaurants := service.NewRestaurantService(repo.NewRestaurantRepo(db), repo.NewReviewRepo(db), nil, time.Minute, nil)
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

	engine, err := NewEngine(Deps{
		JWT:         j,
		Accounts:    accounts,
		Restaurants: restaurants,
		Session:     mdw.SessionOpts{CookieName: "_test_session"},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(server.MethodOverride(engine, server.DefaultMaxForm))
	t.Cleanup(func() {
		srv.Close()
		_ = sqlDB.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	u, err := accounts.SignUp(context.Background(), service.SignUpInput{
		Email: testEmail, Password: testPassword, PasswordConfirmation: testPassword,
	})
	require.NoError(t, err)

	return &site{
		t:           t,
		db:          db,
		srv:         srv,
		client:      &http.Client{Jar: jar, Timeout: 5 * time.Second},
		jwt:         j,
		restaurants: restaurants,
		user:        u,
	}
}

// page 跟随重定向后的最终页面
type page struct {
	Status int
	Path   string
	Body   string
}

func (s *site) read(res *http.Response, err error) page {
	s.t.Helper()
	require.NoError(s.t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return page{Status: res.StatusCode, Path: res.Request.URL.Path, Body: string(b)}
}

func (s *site) visit(path string) page {
	s.t.Helper()
	return s.read(s.client.Get(s.srv.URL + path))
}

func (s *site) submit(path string, form url.Values) page {
	s.t.Helper()
	return s.read(s.client.PostForm(s.srv.URL+path, form))
}

func (s *site) signIn() {
	s.t.Helper()
	p := s.submit("/users/sign_in", url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(s.t, http.StatusOK, p.Status)
	require.Contains(s.t, p.Body, "Signed in successfully.")
}

func (s *site) signOut() {
	s.t.Helper()
	p := s.submit("/users/sign_out", url.Values{"_method": {"delete"}})
	require.Contains(s.t, p.Body, "Signed out successfully.")
}

func (s *site) createRestaurant(name, description string) page {
	s.t.Helper()
	return s.submit("/restaurants", url.Values{"name": {name}, "description": {description}})
}

// apiResp 统一信封
type apiResp struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (s *site) api(method, path, token string, body any) apiResp {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.srv.URL+"/api/v1"+path, rd)
	require.NoError(s.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer res.Body.Close()
	require.Equal(s.t, http.StatusOK, res.StatusCode)

	var out apiResp
	require.NoError(s.t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func (s *site) token() string {
	s.t.Helper()
	tok, err := s.jwt.Issue(s.user.ID, s.user.Email)
	require.NoError(s.t, err)
	return tok
}
