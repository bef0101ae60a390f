package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type jwtCfg struct{ secret string }

func (j jwtCfg) GetJWTAccessSecret() string { return j.secret }
func (j jwtCfg) IsAuthEnabled() bool        { return j.secret != "" }

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func serve(engine *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantErrors []string
	}{
		{"not found", apperr.NotFound("Chamada não encontrada"), http.StatusNotFound, "Chamada não encontrada", nil},
		{"wrapped ineligible", fmt.Errorf("create offer: %w", apperr.Ineligible("sem compatibilidade")), http.StatusForbidden, "sem compatibilidade", nil},
		{"validation list", apperr.Validation("dados inválidos").WithDetails([]string{"a", "b"}), http.StatusBadRequest, "", []string{"a", "b"}},
		{"untyped", errors.New("pg: connection reset"), http.StatusInternalServerError, msgInternalError, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/", func(c *gin.Context) { HandleError(c, tc.err) })

			rec := serve(engine, http.MethodGet, "/", nil)
			env := decode(t, rec)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantError, env.Error)
			assert.Equal(t, tc.wantErrors, env.Errors)
		})
	}
}

func TestList_IncludesZeroCount(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) { List(c, 0, []string{}) })

	rec := serve(engine, http.MethodGet, "/", nil)
	assert.JSONEq(t, `{"success":true,"count":0,"data":[]}`, rec.Body.String())
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthRequired(t *testing.T) {
	secret := "s3cret"
	userID := uuid.New()
	providerID := uuid.New()

	engine := gin.New()
	engine.Use(MutatingOnly(AuthRequired(jwtCfg{secret: secret})))
	handler := func(c *gin.Context) {
		id := GetIdentity(c)
		pid, _ := id.ProviderID()
		c.JSON(http.StatusOK, gin.H{"auth": id.IsAuthenticated(), "provider": pid.String()})
	}
	engine.GET("/", handler)
	engine.POST("/", handler)

	t.Run("reads pass without token", func(t *testing.T) {
		rec := serve(engine, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("writes need a token", func(t *testing.T) {
		rec := serve(engine, http.MethodPost, "/", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh tokens are rejected", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{"sub": userID.String(), "type": "refresh"})
		rec := serve(engine, http.MethodPost, "/", http.Header{"Authorization": {"Bearer " + token}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid access token sets identity", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub":          userID.String(),
			"type":         "access",
			"roles":        []string{"prestador"},
			"prestador_id": providerID.String(),
			"exp":          time.Now().Add(time.Minute).Unix(),
		})
		rec := serve(engine, http.MethodPost, "/", http.Header{"Authorization": {"Bearer " + token}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"auth":true,"provider":"%s"}`, providerID), rec.Body.String())
	})
}

func TestAuthRequired_DisabledWithoutSecret(t *testing.T) {
	engine := gin.New()
	engine.Use(AuthRequired(jwtCfg{}))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := serve(engine, http.MethodPost, "/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCanActFor(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	build := func(roles []string, provider *uuid.UUID) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(ContextUserIDKey, uuid.New())
		c.Set(ContextRolesKey, roles)
		if provider != nil {
			c.Set(ContextProviderIDKey, *provider)
		}
		return c
	}

	anonymous, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, CanActFor(anonymous, other))
	assert.True(t, CanActFor(build(nil, &own), own))
	assert.False(t, CanActFor(build(nil, &own), other))
	assert.True(t, CanActFor(build([]string{RoleAdmin}, &own), other))
	assert.True(t, CanActFor(build(nil, nil), other))
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0, 1, logger.NewWithWriter("test", io.Discard))
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodGet, "/", nil).Code)
}

func TestRequestID_EchoesIncomingHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Context().Value(logger.RequestIDKey).(string))
	})

	rec := serve(engine, http.MethodGet, "/", http.Header{HeaderRequestID: {"abc"}})
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc", rec.Body.String())
}
