package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/blocklist"
	"github.com/storedesk/storesapi/internal/handlers"
	"github.com/storedesk/storesapi/internal/middleware"
	"github.com/storedesk/storesapi/internal/models"
	"github.com/storedesk/storesapi/internal/repo"
	"github.com/storedesk/storesapi/internal/tokens"
	httpserver "github.com/storedesk/storesapi/internal/transport/http"
	"github.com/storedesk/storesapi/internal/validate"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Issuer    *tokens.Issuer
	Blocklist *blocklist.Blocklist
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// a single connection keeps every session on the same :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Store{}, &models.Item{}, &models.Tag{}, &models.ItemTag{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	issuer, err := tokens.NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	bl := blocklist.New()
	r := &repo.GormRepo{DB: db}
	auth := middleware.NewAuth(issuer, bl)

	e := echo.New()
	e.HTTPErrorHandler = apperror.EchoErrorHandler
	e.Validator = validate.New()

	httpserver.Register(e, &httpserver.Deps{
		Auth:         auth,
		AuthHandler:  &handlers.AuthHandler{Repo: r, Issuer: issuer, Blocklist: bl},
		StoreHandler: &handlers.StoreHandler{Repo: r},
		ItemHandler:  &handlers.ItemHandler{Repo: r},
		TagHandler:   &handlers.TagHandler{Repo: r},
	})

	return &testEnv{T: t, E: e, DB: db, Issuer: issuer, Blocklist: bl}
}

// do runs a request through the full echo stack, middleware included.
func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (env *testEnv) register(username, password string) {
	rec := env.do(http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, "register %s: %s", username, rec.Body.String())
}

// login returns (access, refresh).
func (env *testEnv) login(username, password string) (string, string) {
	rec := env.do(http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code, "login %s: %s", username, rec.Body.String())

	body := env.decode(rec)
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	require.NotEmpty(env.T, access)
	require.NotEmpty(env.T, refresh)
	return access, refresh
}

// adminToken registers/logs in the very first user, who holds identity 1 and
// with it the admin claim.
func (env *testEnv) adminToken() string {
	env.register("admin_user", "password123")
	access, _ := env.login("admin_user", "password123")
	return access
}

func (env *testEnv) createStore(token, name string) uint {
	rec := env.do(http.MethodPost, "/stores", token, map[string]string{"name": name})
	require.Equal(env.T, http.StatusCreated, rec.Code, "create store %s: %s", name, rec.Body.String())
	return uint(env.decode(rec)["id"].(float64))
}

func (env *testEnv) createItem(token, name string, price float64, storeID uint) uint {
	rec := env.do(http.MethodPost, "/items", token, map[string]any{
		"name":     name,
		"price":    price,
		"store_id": storeID,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, "create item %s: %s", name, rec.Body.String())
	return uint(env.decode(rec)["id"].(float64))
}

func (env *testEnv) createTag(token, name string, storeID uint) uint {
	rec := env.do(http.MethodPost, fmt.Sprintf("/stores/%d/tags", storeID), token, map[string]string{"name": name})
	require.Equal(env.T, http.StatusCreated, rec.Code, "create tag %s: %s", name, rec.Body.String())
	return uint(env.decode(rec)["id"].(float64))
}
