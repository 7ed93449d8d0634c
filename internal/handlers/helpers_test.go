package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restbuck/coffeeshop/internal/config"
	"github.com/restbuck/coffeeshop/internal/handlers"
	authmw "github.com/restbuck/coffeeshop/internal/middleware/auth"
	"github.com/restbuck/coffeeshop/internal/middleware/ratelimit"
	"github.com/restbuck/coffeeshop/internal/models"
	"github.com/restbuck/coffeeshop/internal/repo"
	"github.com/restbuck/coffeeshop/internal/service"
	httpserver "github.com/restbuck/coffeeshop/internal/transport/http"
)

type notifyCall struct {
	userID   uint
	orderID  uint
	previous models.OrderStatus
	next     models.OrderStatus
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) NotifyStatusChange(_ context.Context, user models.User, orderID uint, previous, next models.OrderStatus) {
	f.calls = append(f.calls, notifyCall{userID: user.ID, orderID: orderID, previous: previous, next: next})
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Svc      *service.OrderService
	Notifier *fakeNotifier
	Secret   []byte

	Client  models.User
	Other   models.User
	Manager models.User
	Water   models.Product
	Milk    models.Product
	Small   models.FeatureValue
	Cold    models.FeatureValue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	env := &testEnv{
		T:        t,
		DB:       db,
		Repo:     &repo.GormRepo{DB: db},
		Notifier: &fakeNotifier{},
		Secret:   []byte("test_secret"),
	}
	env.Svc = &service.OrderService{Repo: env.Repo, Notifier: env.Notifier}

	env.Client = models.User{Username: "client1", Email: "client1@example.com", Role: "client"}
	require.NoError(t, db.Create(&env.Client).Error)
	env.Other = models.User{Username: "client2", Email: "client2@example.com", Role: "client"}
	require.NoError(t, db.Create(&env.Other).Error)
	env.Manager = models.User{Username: "barista", Email: "barista@example.com", Role: "manager"}
	require.NoError(t, db.Create(&env.Manager).Error)

	size := models.Feature{Title: "size", Values: []models.FeatureValue{{Title: "small"}, {Title: "big"}}}
	require.NoError(t, db.Create(&size).Error)
	thermal := models.Feature{Title: "thermal", Values: []models.FeatureValue{{Title: "cold"}, {Title: "hot"}}}
	require.NoError(t, db.Create(&thermal).Error)
	env.Small = size.Values[0]
	env.Cold = thermal.Values[0]

	env.Water = models.Product{Title: "water", Cost: 2, FeatureID: &size.ID}
	require.NoError(t, db.Create(&env.Water).Error)
	env.Milk = models.Product{Title: "milk", Cost: 4, FeatureID: &thermal.ID}
	require.NoError(t, db.Create(&env.Milk).Error)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())

	limiter := ratelimit.New()
	t.Cleanup(limiter.Close)

	deps := httpserver.Deps{
		MenuHandler:  &handlers.MenuHandler{Svc: &service.CatalogService{Repo: env.Repo}},
		OrderHandler: &handlers.OrderHandler{Svc: env.Svc},
		Auth:         &authmw.RequireAuth{JWTSecret: env.Secret},
		Limiter:      limiter,
	}
	httpserver.Register(e, &deps)
	env.E = e

	return env
}

func (env *testEnv) token(user models.User) string {
	claims := jwt.MapClaims{
		"sub":   float64(user.ID),
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(env.Secret)
	require.NoError(env.T, err)
	return raw
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) submitBody(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"data": items}
}

func (env *testEnv) waterItem() map[string]interface{} {
	return map[string]interface{}{
		"product":          env.Water.ID,
		"count":            1,
		"consume_location": int(models.TakeAway),
		"feature_value":    env.Small.ID,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (env *testEnv) createOrder(t *testing.T, token string) uint {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/client_order/", env.submitBody(env.waterItem()), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}
