package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gameapi "github.com/beka-birhanu/maze-craze/api/game"
	api_i "github.com/beka-birhanu/maze-craze/api/i"
	identityapi "github.com/beka-birhanu/maze-craze/api/identity"
	"github.com/beka-birhanu/maze-craze/game"
	"github.com/beka-birhanu/maze-craze/identity"
	"github.com/beka-birhanu/maze-craze/infrastruture/token"
	"github.com/beka-birhanu/maze-craze/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const operatorPassword = "correct-horse-battery-staple-42"

type fixture struct {
	handler   http.Handler
	session   *game.Session
	tokenizer *token.JwtService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	session, err := game.NewSession(game.Config{Size: 3})
	require.NoError(t, err)

	op, err := identity.NewOperator(identity.OperatorConfig{
		Username:      "maze_op",
		PlainPassword: operatorPassword,
		HashCost:      bcrypt.MinCost,
	})
	require.NoError(t, err)

	tokenizer := token.NewJwtService("test-secret", "maze-craze")
	auth, err := service.NewAuthService(op, tokenizer, time.Minute)
	require.NoError(t, err)

	mazeController, err := gameapi.NewMazeController(session, service.NewScoreboard(nil, nil, nil), nil)
	require.NoError(t, err)

	router := NewRouter(Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{identityapi.NewOperatorController(auth), mazeController},
		AuthorizationMiddleware: identityapi.Authoriz(tokenizer, identity.RoleOperator),
	})

	return fixture{handler: router.Handler(), session: session, tokenizer: tokenizer}
}

func (f fixture) do(method, path, bearer string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f fixture) signIn(t *testing.T, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(identityapi.SignInRequest{Username: "maze_op", Password: password})
	require.NoError(t, err)
	return f.do(http.MethodPost, "/api/v1/operator/signin", "", body)
}

func TestRouter(t *testing.T) {
	f := newFixture(t)

	t.Run("Serves the snapshot", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/maze", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap game.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, 3, snap.Size)
		assert.Len(t, snap.Cells, 9)
		assert.Equal(t, game.StateActive, snap.State)
	})

	t.Run("Serves the ascii maze", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/maze/ascii", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, f.session.Maze().String(), w.Body.String())
		assert.True(t, strings.HasPrefix(w.Body.String(), "+---+"))
	})

	t.Run("Serves an empty leaderboard without stores", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/leaderboard?limit=5", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"standings":[],"recent":[]}`, w.Body.String())

		w = f.do(http.MethodGet, "/api/v1/leaderboard?limit=zero", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Sign in", func(t *testing.T) {
		w := f.signIn(t, "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = f.do(http.MethodPost, "/api/v1/operator/signin", "", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = f.signIn(t, operatorPassword)
		require.Equal(t, http.StatusOK, w.Code)
		var resp identityapi.SignInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Restart requires an operator token", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/maze/restart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = f.do(http.MethodPost, "/api/v1/maze/restart", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		player, err := f.tokenizer.Generate(map[string]interface{}{"role": "player"}, time.Minute)
		require.NoError(t, err)
		w = f.do(http.MethodPost, "/api/v1/maze/restart", player, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Operator restarts the maze", func(t *testing.T) {
		_, err := f.session.Connect("okko")
		require.NoError(t, err)
		before := f.session.Snapshot().Version

		w := f.signIn(t, operatorPassword)
		require.Equal(t, http.StatusOK, w.Code)
		var resp identityapi.SignInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		w = f.do(http.MethodPost, "/api/v1/maze/restart", resp.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var restart gameapi.RestartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restart))
		assert.Greater(t, restart.Version, before)
		assert.Equal(t, 3, restart.Size)

		p, ok := f.session.Player("okko")
		require.True(t, ok)
		assert.Equal(t, f.session.Maze().Start(), p.Pos)
	})
}
