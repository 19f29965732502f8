package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
	"github.com/assistec/assistec-api/tests/testutil"
)

func setupUserRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/users", CreateUser)
		v1.GET("/users", ListUsers)
		v1.GET("/users/me", GetMyProfile)
		v1.PUT("/users/me", UpdateMyProfile)
		v1.PATCH("/users/:id/active", SetUserActive)
	}
	return router
}

func TestCreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupUserRouter()

	userinfoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(services.Auth0UserInfo{
			Sub:   "auth0|newuser",
			Email: "newuser@assistec.test",
			Name:  "New User",
		})
	}))
	defer userinfoServer.Close()

	config.SetConfig(&config.Config{GoEnv: "test", Auth0Domain: userinfoServer.URL})
	defer config.SetConfig(nil)

	t.Run("provisions the caller from auth0 userinfo", func(t *testing.T) {
		// CreateUser needs the JWT middleware's context values; inject
		// them with a wrapper router for this test
		wrapped := gin.New()
		wrapped.Use(testutil.MockAuthMiddleware("auth0|newuser", "user"))
		wrapped.POST("/api/v1/users", CreateUser)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-access-token")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var user models.User
		assert.NoError(t, db.Where("auth0_id = ?", "auth0|newuser").First(&user).Error)
		assert.Equal(t, "newuser@assistec.test", user.Email)
		assert.Equal(t, "New User", user.Name)
		assert.True(t, user.Active)

		// Provisioning again conflicts
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-access-token")
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "USER_EXISTS")
	})

	t.Run("401 without the auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-access-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetMyProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	actor := seedActor(t, db)
	router := setupUserRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data models.User `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, actor.Email, response.Data.Email)
}

func TestUpdateMyProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	actor := seedActor(t, db)
	router := setupUserRouter()

	t.Run("updates name", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/v1/users/me", UpdateUserRequest{Name: "Renamed Actor"})
		assert.Equal(t, http.StatusOK, w.Code)

		var fromDB models.User
		db.First(&fromDB, actor.ID)
		assert.Equal(t, "Renamed Actor", fromDB.Name)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		other := models.User{Auth0ID: "auth0|other", Name: "Other", Email: "other@assistec.test", Role: "user", Active: true}
		db.Create(&other)

		w := doJSON(router, http.MethodPut, "/api/v1/users/me", UpdateUserRequest{Email: "other@assistec.test"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "EMAIL_EXISTS")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedActor(t, db)
	router := setupUserRouter()

	db.Create(&models.User{Auth0ID: "auth0|active-tech", Name: "Active Tech", Email: "at@assistec.test", Role: "user", Active: true})
	db.Create(&models.User{Auth0ID: "auth0|inactive-tech", Name: "Inactive Tech", Email: "it@assistec.test", Role: "user", Active: false})

	listLen := func(t *testing.T, path string) int {
		w := doJSON(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Data []models.User `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return len(response.Data)
	}

	t.Run("lists everyone by default", func(t *testing.T) {
		assert.Equal(t, 3, listLen(t, "/api/v1/users"))
	})

	t.Run("active filter hides deactivated users", func(t *testing.T) {
		assert.Equal(t, 2, listLen(t, "/api/v1/users?active=true"))
	})

	t.Run("role filter", func(t *testing.T) {
		assert.Equal(t, 1, listLen(t, "/api/v1/users?role=admin"))
	})
}

func TestSetUserActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedActor(t, db)
	router := setupUserRouter()

	tech := models.User{Auth0ID: "auth0|toggle-tech", Name: "Tech", Email: "toggle@assistec.test", Role: "user", Active: true}
	db.Create(&tech)

	boolPtr := func(b bool) *bool { return &b }

	t.Run("admin deactivates a user", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/active", tech.ID), SetUserActiveRequest{Active: boolPtr(false)})
		assert.Equal(t, http.StatusOK, w.Code)

		var fromDB models.User
		db.First(&fromDB, tech.ID)
		assert.False(t, fromDB.Active)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		regular := models.User{Auth0ID: "auth0|regular", Name: "Regular", Email: "regular@assistec.test", Role: "user", Active: true}
		db.Create(&regular)
		services.NewMockActorProvider(&regular).SetAsMockForTesting()
		defer seedActorProviderReset(t, db)

		w := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/active", tech.ID), SetUserActiveRequest{Active: boolPtr(true)})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing body is a 400", func(t *testing.T) {
		w := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/active", tech.ID), gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
