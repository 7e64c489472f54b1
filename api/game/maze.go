package gameapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/gin-gonic/gin"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

var ErrMissingSession = errors.New("session is required")

// MazeController serves the session state and the operator restart.
type MazeController struct {
	session    i.GameSession
	scoreboard i.Scoreboard
	websocket  http.Handler
}

// NewMazeController initializes a MazeController. scoreboard and websocket may
// be nil, which leaves their routes out.
func NewMazeController(session i.GameSession, scoreboard i.Scoreboard, websocket http.Handler) (*MazeController, error) {
	if session == nil {
		return nil, ErrMissingSession
	}
	return &MazeController{
		session:    session,
		scoreboard: scoreboard,
		websocket:  websocket,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	maze := route.Group("/maze")
	{
		maze.GET("", mc.snapshot)
		maze.GET("/ascii", mc.ascii)
	}
	if mc.scoreboard != nil {
		route.GET("/leaderboard", mc.leaderboard)
	}
	if mc.websocket != nil {
		route.GET("/ws", gin.WrapH(mc.websocket))
	}
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/maze/restart", mc.restart)
}

func (mc *MazeController) snapshot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, mc.session.Snapshot())
}

func (mc *MazeController) ascii(ctx *gin.Context) {
	ctx.String(http.StatusOK, mc.session.Maze().String())
}

// leaderboard accepts an optional ?limit=n, capped at maxLeaderboardLimit.
func (mc *MazeController) leaderboard(ctx *gin.Context) {
	limit := int64(defaultLeaderboardLimit)
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	standings, err := mc.scoreboard.Top(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	recent, err := mc.scoreboard.Recent(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &LeaderboardResponse{Standings: standings, Recent: recent})
}

func (mc *MazeController) restart(ctx *gin.Context) {
	if err := mc.session.Restart(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snap := mc.session.Snapshot()
	ctx.JSON(http.StatusOK, &RestartResponse{Version: snap.Version, Size: snap.Size})
}
