package router

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-directory/internal/domain"
)

func TestRoot_RedirectsToList(t *testing.T) {
	s := newSite(t)
	p := s.visit("/")
	assert.Equal(t, "/restaurants", p.Path)
}

func TestHealth(t *testing.T) {
	s := newSite(t)
	p := s.visit("/health")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.JSONEq(t, `{"ok":1}`, p.Body)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newSite(t)
	s.visit("/restaurants")
	p := s.visit("/metrics")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "http_requests_total")
}

func TestIndex_EmptyState(t *testing.T) {
	s := newSite(t)
	p := s.visit("/restaurants")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "No restaurants yet")
	assert.Contains(t, p.Body, "Add a restaurant")
}

func TestCreateRestaurant(t *testing.T) {
	s := newSite(t)
	s.signIn()

	form := s.visit("/restaurants/new")
	require.Contains(t, form.Body, "Create Restaurant")

	p := s.createRestaurant("KFC", "Deep fried goodness")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, "/restaurants", p.Path)
	assert.Contains(t, p.Body, "KFC")
	assert.Contains(t, p.Body, "Restaurant created successfully")
	assert.NotContains(t, p.Body, "No restaurants yet")
}

func TestCreateRestaurant_InvalidName(t *testing.T) {
	s := newSite(t)
	s.signIn()

	p := s.createRestaurant("kf", "")
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "error")
	assert.NotContains(t, p.Body, "<h2>kf")
	assert.NotContains(t, p.Body, ">kf</a></h2>")

	list := s.visit("/restaurants")
	assert.Contains(t, list.Body, "No restaurants yet")
}

func TestCreateRestaurant_DuplicateName(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")

	p := s.createRestaurant("KFC", "again")
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "Name has already been taken")
}

func TestShowRestaurant(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "Deep fried goodness")
	s.signOut()

	p := s.visit("/restaurants/1")
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "KFC")
	assert.Contains(t, p.Body, "Deep fried goodness")
	assert.Contains(t, p.Body, "No reviews yet")
}

func TestShowRestaurant_Unknown(t *testing.T) {
	s := newSite(t)
	assert.Equal(t, http.StatusNotFound, s.visit("/restaurants/42").Status)
	assert.Equal(t, http.StatusNotFound, s.visit("/restaurants/abc").Status)
	assert.Equal(t, http.StatusNotFound, s.visit("/nowhere").Status)
}

func TestEditRestaurant(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "Deep fried goodness")

	list := s.visit("/restaurants")
	require.Contains(t, list.Body, "Edit KFC")

	form := s.visit("/restaurants/1/edit")
	require.Contains(t, form.Body, "Update Restaurant")
	require.Contains(t, form.Body, `value="KFC"`)

	p := s.submit("/restaurants/1", url.Values{
		"_method":     {"patch"},
		"name":        {"Kentucky Fried Chicken"},
		"description": {"Deep fried goodness"},
	})
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, "/restaurants/1", p.Path)
	assert.Contains(t, p.Body, "Kentucky Fried Chicken")
	assert.Contains(t, p.Body, "Deep fried goodness")
	assert.Contains(t, p.Body, "Restaurant updated successfully")
}

func TestEditRestaurant_InvalidName(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")

	p := s.submit("/restaurants/1", url.Values{"_method": {"patch"}, "name": {"kf"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "1 error prohibited this restaurant from being saved:")

	r, err := s.restaurants.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "KFC", r.Name)
}

func TestDeleteRestaurant(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")

	list := s.visit("/restaurants")
	require.Contains(t, list.Body, "Delete KFC")

	p := s.submit("/restaurants/1", url.Values{"_method": {"delete"}})
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, "/restaurants", p.Path)
	assert.NotContains(t, p.Body, "KFC")
	assert.Contains(t, p.Body, "Restaurant deleted successfully")
}

func TestDeleteRestaurant_RemovesReviews(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")
	s.submit("/restaurants/1/reviews", url.Values{"thoughts": {"crispy"}, "rating": {"4"}})

	s.submit("/restaurants/1", url.Values{"_method": {"delete"}})

	var n int64
	require.NoError(t, s.db.Model(&domain.Review{}).Where("restaurant_id = ?", 1).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSignedOut_MutationsRedirectToLogin(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")
	s.signOut()

	cases := []struct {
		name string
		do   func() page
	}{
		{"add a restaurant", func() page { return s.visit("/restaurants/new") }},
		{"edit KFC", func() page { return s.visit("/restaurants/1/edit") }},
		{"delete KFC", func() page { return s.submit("/restaurants/1", url.Values{"_method": {"delete"}}) }},
		{"create", func() page { return s.createRestaurant("Wendy's", "") }},
		{"update", func() page {
			return s.submit("/restaurants/1", url.Values{"_method": {"patch"}, "name": {"Hijacked"}})
		}},
		{"review", func() page { return s.visit("/restaurants/1/reviews/new") }},
		{"leave review", func() page {
			return s.submit("/restaurants/1/reviews", url.Values{"thoughts": {"sneaky"}, "rating": {"1"}})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.do()
			assert.Equal(t, "/users/sign_in", p.Path)
			assert.Contains(t, p.Body, "Log in")
			assert.Contains(t, p.Body, "You need to sign in or sign up before continuing.")
		})
	}

	r, err := s.restaurants.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "KFC", r.Name)
	assert.Empty(t, r.Reviews)

	var reviews int64
	require.NoError(t, s.db.Model(&domain.Review{}).Count(&reviews).Error)
	assert.Zero(t, reviews)

	list := s.visit("/restaurants")
	assert.NotContains(t, list.Body, "Wendy&#39;s")
}

func TestSignIn_WrongPassword(t *testing.T) {
	s := newSite(t)
	p := s.submit("/users/sign_in", url.Values{"email": {testEmail}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "Invalid Email or password.")
	assert.Contains(t, p.Body, "Log in")
}

func TestSignUp(t *testing.T) {
	s := newSite(t)

	bad := s.submit("/users/sign_up", url.Values{
		"email": {"new@test.com"}, "password": {"secret1"}, "password_confirmation": {"secret2"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, bad.Status)
	assert.Contains(t, bad.Body, "Password confirmation doesn&#39;t match Password")

	p := s.submit("/users/sign_up", url.Values{
		"email": {"new@test.com"}, "password": {"secret1"}, "password_confirmation": {"secret1"},
	})
	assert.Equal(t, "/restaurants", p.Path)
	assert.Contains(t, p.Body, "new@test.com")
	assert.Contains(t, p.Body, "Sign out")
}

func TestLeaveReview_AuthorIsActingUser(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")

	form := s.visit("/restaurants/1/reviews/new")
	require.Contains(t, form.Body, "Leave Review")

	p := s.submit("/restaurants/1/reviews", url.Values{
		"thoughts": {"crispy"},
		"rating":   {"4"},
		"user_id":  {"someone-else"},
	})
	assert.Equal(t, "/restaurants/1", p.Path)
	assert.Contains(t, p.Body, "crispy")
	assert.Contains(t, p.Body, "★★★★☆")

	var rv domain.Review
	require.NoError(t, s.db.Where("restaurant_id = ?", 1).First(&rv).Error)
	assert.Equal(t, s.user.ID, rv.UserID)
}

func TestLeaveReview_BadRating(t *testing.T) {
	s := newSite(t)
	s.signIn()
	s.createRestaurant("KFC", "")

	p := s.submit("/restaurants/1/reviews", url.Values{"thoughts": {"meh"}, "rating": {"9"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Body, "prohibited this review from being saved")
}

func TestCORS_OnlyOnAPI(t *testing.T) {
	s := newSite(t)

	get := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, s.srv.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://elsewhere.example")
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = res.Body.Close()
		return res
	}

	assert.Empty(t, get("/restaurants").Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "*", get("/api/v1/restaurants").Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, s.srv.URL+"/api/v1/restaurants", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}
