package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iamasit07/connect4/engine/internal/config"
	"github.com/iamasit07/connect4/engine/internal/domain"
	"github.com/iamasit07/connect4/engine/internal/repository/postgres"
	"github.com/iamasit07/connect4/engine/internal/repository/redis"
	"github.com/iamasit07/connect4/engine/internal/service/bot"
	"github.com/iamasit07/connect4/engine/internal/service/cleanup"
	"github.com/iamasit07/connect4/engine/internal/service/game"
	"github.com/iamasit07/connect4/engine/internal/service/player"
	"github.com/iamasit07/connect4/engine/internal/transport/console"
	transportHttp "github.com/iamasit07/connect4/engine/internal/transport/http"
	"github.com/iamasit07/connect4/engine/internal/transport/http/middleware"
	"github.com/iamasit07/connect4/engine/internal/transport/websocket"
	"github.com/iamasit07/connect4/engine/pkg/auth"
)

var hashWatchKey = flag.String("hash-watch-key", "", "Print the bcrypt hash of a spectator watch key and exit")

func main() {
	flag.Parse()

	if *hashWatchKey != "" {
		hash, err := auth.HashWatchKey(*hashWatchKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to hash watch key:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	if err := godotenv.Load(); err != nil {
		godotenv.Load("../.env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, log); err != nil {
		log.Fatal("[MAIN] Exiting", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log *zap.Logger) error {
	// 1. Players
	factory := player.NewFactory(bot.NewOnePly(cfg.Seed))
	player1, player2, err := buildPlayers(factory, cfg)
	if err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		player1, player2 = loadStats(ctx, cfg, factory, player1, player2, out, log)
	}

	// 2. Game
	settings := game.Settings{Rows: cfg.Rows, Columns: cfg.Columns, RunLength: cfg.RunLength}
	ctrl, err := game.NewController(settings, player1, player2, game.WithLogger(log))
	if err != nil {
		return err
	}

	registry := game.NewRegistry(log)
	registry.Register(ctrl)

	renderer := console.NewRenderer(out, player1, player2)
	ctrl.AddObserver(renderer)

	// 3. Optional event publishing
	if cfg.RedisURL != "" {
		if client := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword, log); client != nil {
			defer client.Close()
			publisher := redis.NewEventPublisher(client, cfg.RedisChannel, log)
			defer publisher.Close()
			ctrl.AddObserver(publisher.Observer(ctrl.GameID(), settings.Rows, settings.Columns))
		}
	}

	// 4. Optional spectator server
	if cfg.WatchAddr != "" {
		shutdown := startSpectatorServer(cfg, registry, ctrl, log)
		defer shutdown()
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	interval := time.Duration(config.GetEnvAsInt("CLEANUP_INTERVAL_SECONDS", 60)) * time.Second
	go cleanup.NewWorker(registry, interval, log).Start(workerCtx)

	// 5. Play
	driver := game.NewDriver(ctrl, log)
	if err := driver.Start(); err != nil {
		return err
	}
	renderer.Board(ctrl.Snapshot())
	return playLoop(ctx, driver, renderer, in, out)
}

func buildPlayers(factory *player.Factory, cfg *config.Config) (*domain.Player, *domain.Player, error) {
	player1, err := factory.Human(cfg.Player1Name, domain.PlayerOne)
	if err != nil {
		return nil, nil, err
	}

	var player2 *domain.Player
	if cfg.Mode == config.ModePvC {
		player2, err = factory.Computer()
	} else {
		player2, err = factory.Human(cfg.Player2Name, domain.PlayerTwo)
	}
	if err != nil {
		return nil, nil, err
	}
	return player1, player2, nil
}

// loadStats decorates human players with their history. The roster is a
// nicety, so any failure leaves the players as they were.
func loadStats(ctx context.Context, cfg *config.Config, factory *player.Factory, p1, p2 *domain.Player, out io.Writer, log *zap.Logger) (*domain.Player, *domain.Player) {
	db, err := postgres.OpenDB(cfg.DatabaseURL,
		config.GetEnvAsInt("DB_MAX_OPEN_CONNS", 5),
		config.GetEnvAsInt("DB_MAX_IDLE_CONNS", 2),
		config.GetEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 5))
	if err != nil {
		log.Warn("[ROSTER] Database unavailable, continuing without stats", zap.Error(err))
		return p1, p2
	}
	defer db.Close()

	repo := postgres.NewPlayerRepo(db)
	if top, err := repo.Leaderboard(ctx, 5); err == nil && len(top) > 0 {
		fmt.Fprintln(out, "Top players:")
		for _, s := range top {
			fmt.Fprintf(out, "  %d. %s  %d won / %d played\n", s.Rank, s.Username, s.GamesWon, s.GamesPlayed)
		}
	}
	withStats := func(p *domain.Player) *domain.Player {
		if p.IsComputer() {
			return p
		}
		stats, found, err := repo.FindStats(ctx, p.Name())
		if err != nil {
			log.Warn("[ROSTER] Lookup failed", zap.String("player", p.Name()), zap.Error(err))
			return p
		}
		if !found {
			return p
		}
		decorated, err := factory.WithStats(p, stats.GamesPlayed, stats.GamesWon)
		if err != nil {
			return p
		}
		return decorated
	}
	return withStats(p1), withStats(p2)
}

func startSpectatorServer(cfg *config.Config, registry *game.Registry, ctrl *game.Controller, log *zap.Logger) func() {
	for _, warning := range cfg.SpectatorWarnings() {
		log.Warn("[MAIN] Insecure spectator settings", zap.String("reason", warning))
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	hub := websocket.NewHub(log)
	ctrl.AddObserver(hub.Observer(ctrl.GameID(), cfg.Rows, cfg.Columns))

	checkOrigin := func(r *http.Request) bool {
		return middleware.OriginAllowed(r.Header.Get("Origin"), cfg.AllowedOrigins)
	}
	wsHandler := websocket.NewHandler(hub, registry, tokens, checkOrigin, log)
	watchHandler := transportHttp.NewWatchHandler(registry, hub, tokens, cfg.WatchKeyHash, log)
	router := transportHttp.NewRouter(watchHandler, wsHandler.HandleWebSocket, cfg.AllowedOrigins, log)

	srv := &http.Server{
		Addr:    cfg.WatchAddr,
		Handler: router,
	}

	go func() {
		log.Info("[MAIN] Spectator server listening", zap.String("addr", cfg.WatchAddr), zap.String("game_id", ctrl.GameID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("[MAIN] Spectator server failed", zap.Error(err))
		}
	}()

	return func() {
		hub.CloseGame(ctrl.GameID())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("[MAIN] Spectator server forced to shutdown", zap.Error(err))
		}
	}
}

// playLoop reads commands: a 1-based column number, "r" to reset or "q" to
// quit. It returns when the game is quit, input ends or ctx is cancelled.
func playLoop(ctx context.Context, driver *game.Driver, renderer *console.Renderer, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ctrl := driver.Controller()
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			driver.Quit()
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			if ctrl.State() != game.Quit {
				driver.Quit()
			}
			return nil
		}

		if err := handleCommand(driver, strings.TrimSpace(line), out); err != nil {
			return err
		}

		switch ctrl.State() {
		case game.Quit:
			return nil
		case game.Finished:
			renderer.Board(ctrl.Snapshot())
			fmt.Fprintln(out, "Type r to play again or q to quit.")
		}
	}
}

func handleCommand(driver *game.Driver, cmd string, out io.Writer) error {
	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "q", "quit":
		return driver.Quit()
	case "r", "reset":
		return driver.Reset()
	}

	col, err := strconv.Atoi(cmd)
	if err != nil {
		fmt.Fprintf(out, "Unknown command %q. Enter a column number, r or q.\n", cmd)
		return nil
	}

	_, err = driver.Play(col - 1)
	switch {
	case errors.Is(err, domain.ErrColumnOutOfRange):
		fmt.Fprintf(out, "Column %d does not exist.\n", col)
		return nil
	case errors.Is(err, domain.ErrInvalidState):
		fmt.Fprintln(out, "No move is possible right now. Type r to play again or q to quit.")
		return nil
	}
	return err
}
