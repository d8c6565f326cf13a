package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safelink-service/internal/auth"
	"safelink-service/internal/model"
)

type fixedSession model.Principal

func (s fixedSession) Principal() model.Principal { return model.Principal(s) }

func newEngine(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	session := fixedSession{ActorID: "user_session", Role: model.ActorRoleCivilian}
	engine.GET("/who", Actor(tokens, session), func(c *gin.Context) {
		p, ok := MustPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.ActorID+"/"+string(p.Role))
	})
	return engine
}

func TestActor(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	engine := newEngine(tokens)

	token, _, err := tokens.Issue(model.Principal{ActorID: "user_token", Role: model.ActorRoleRescue})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "no header falls back to session", code: http.StatusOK, body: "user_session/civilian"},
		{name: "bearer token", header: "Bearer " + token, code: http.StatusOK, body: "user_token/rescue"},
		{name: "bad scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", code: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}
