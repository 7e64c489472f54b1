package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/maze-craze/api"
	gameapi "github.com/beka-birhanu/maze-craze/api/game"
	api_i "github.com/beka-birhanu/maze-craze/api/i"
	identityapi "github.com/beka-birhanu/maze-craze/api/identity"
	"github.com/beka-birhanu/maze-craze/config"
	"github.com/beka-birhanu/maze-craze/game"
	"github.com/beka-birhanu/maze-craze/identity"
	"github.com/beka-birhanu/maze-craze/infrastruture/leaderboard"
	"github.com/beka-birhanu/maze-craze/infrastruture/repo"
	"github.com/beka-birhanu/maze-craze/infrastruture/token"
	"github.com/beka-birhanu/maze-craze/listener"
	logger "github.com/beka-birhanu/maze-craze/log"
	"github.com/beka-birhanu/maze-craze/service"
	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	winLeaderboard i.Leaderboard
	roundRepo      i.RoundRepo
	scoreboard     *service.Scoreboard
	session        *game.Session
	tcpListener    *listener.TCPListener
	websocketHub   *listener.WebsocketHub
	jwtTokenizer   i.Tokenizer
	authService    i.Authenticator
	authController api_i.Controller
	mazeController api_i.Controller
	router         *api.Router
	appLogger      logger.Logger
)

func mustLogger(prefix, color string) logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Warning("REDIS_ADDR not set, leaderboard disabled")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	winLeaderboard = leaderboard.NewRedisLeaderboard(redisClient, leaderboard.DefaultKey)
	appLogger.Info("Connected to Redis")
}

func initMongo(ctx context.Context) {
	if config.Envs.DBHost == "" {
		appLogger.Warning("DB_HOST not set, round history disabled")
		return
	}

	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)
	var err error
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}

	roundRepo = repo.NewRoundRepo(mongoClient, config.Envs.DBName, "rounds")
	appLogger.Info("Connected to MongoDB")
}

func initScoreboard() {
	scoreboard = service.NewScoreboard(winLeaderboard, roundRepo, mustLogger("SCOREBOARD", config.ColorYellow))
	appLogger.Info("Scoreboard initialized")
}

// initSession creates the session. State changes are pushed to the websocket
// hub, which therefore has to exist first.
func initSession() {
	var err error
	session, err = game.NewSession(
		game.Config{Size: config.Envs.MazeSize},
		game.WithLogger(mustLogger("SESSION", config.ColorCyan)),
		game.WithFinishHandler(scoreboard.HandleFinish),
		game.WithStateHandler(websocketHub.Broadcast),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Session initialized with a %dx%d maze", config.Envs.MazeSize, config.Envs.MazeSize))
}

// submit hands a listener event to the session queue. It is bound before the
// session exists, so it reads the global at call time.
func submit(e game.Event) {
	if !session.Submit(e) {
		appLogger.Debug(fmt.Sprintf("Dropping %s event, session stopped", e.Kind))
	}
}

func initWebsocketHub() {
	var err error
	websocketHub, err = listener.NewWebsocketHub(
		submit,
		listener.WebsocketWithLogger(mustLogger("WEBSOCKET", config.ColorPurple)),
		listener.WebsocketWithInitialState(func() game.Snapshot { return session.Snapshot() }),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating websocket hub: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Websocket hub initialized")
}

func initTCPListener() {
	var err error
	tcpListener, err = listener.NewTCPListener(
		listener.TCPConfig{
			ListenAddr: fmt.Sprintf("%s:%d", config.Envs.HostIP, config.Envs.TCPPort),
			Handler:    submit,
		},
		listener.TCPWithLogger(mustLogger("TCP", config.ColorBlue)),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating TCP listener: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("TCP listener bound to %s", tcpListener.Addr()))
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	operator, err := identity.NewOperator(identity.OperatorConfig{
		Username:      config.Envs.OperatorUsername,
		PlainPassword: config.Envs.OperatorPassword,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating operator: %v", err))
		os.Exit(1)
	}

	authService, err = service.NewAuthService(operator, jwtTokenizer, 0)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initControllers() {
	authController = identityapi.NewOperatorController(authService)

	var err error
	mazeController, err = gameapi.NewMazeController(session, scoreboard, websocketHub)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, mazeController},
		AuthorizationMiddleware: identityapi.Authoriz(t, identity.RoleOperator),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	initRedis(connectCtx)
	initMongo(connectCtx)
	cancel()
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
	}()

	initScoreboard()
	initWebsocketHub()
	initSession()
	initTCPListener()
	initJWTTokenizer()
	initAuthService()
	initControllers()
	initRouter(jwtTokenizer)

	go session.Start(ctx)
	go tcpListener.Serve()

	errs := make(chan error, 1)
	go func() {
		errs <- router.Run()
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down")
	case err := <-errs:
		if err != nil {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		}
	}

	if err := router.Shutdown(); err != nil {
		appLogger.Error(fmt.Sprintf("Stopping HTTP server: %v", err))
	}
	tcpListener.Stop()
	websocketHub.Close()
	session.Stop()
}
