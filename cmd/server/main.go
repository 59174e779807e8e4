package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/joho/godotenv"
	"github.com/kiliankoe/gptmafia/internal/ai"
	"github.com/kiliankoe/gptmafia/internal/ai/ollama"
	"github.com/kiliankoe/gptmafia/internal/ai/openai"
	"github.com/kiliankoe/gptmafia/internal/archive"
	"github.com/kiliankoe/gptmafia/internal/config"
	"github.com/kiliankoe/gptmafia/internal/game"
	"github.com/kiliankoe/gptmafia/internal/game/roles"
	"github.com/kiliankoe/gptmafia/internal/ws"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

var version = "dev" // Set at build time via -ldflags

func main() {
	os.Exit(run())
}

func run() int {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Spectator port (overrides PORT env var)")
		seedFlag    = flag.Int64("seed", 0, "Random seed (overrides SEED env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`GPTmafia - a game of Mafia played by language models

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Serve the spectator API on PORT (default: disabled or PORT env var)
  --seed N        Seed names, roles and speaking order

Environment Variables (also read from ./.env):
  DEFAULT_PROVIDER        AI provider: "ollama" or "openai" (default: ollama)
  DEFAULT_MODEL           AI model to use (default: gemma3:4b)
  SYSTEM_PROMPT           Text prepended to every player's system prompt
  OPENAI_API_KEY          OpenAI API key (required for OpenAI provider)
  OPENAI_BASE_URL         Custom OpenAI API base URL (optional)
  OLLAMA_HOST             Ollama host URL (default: http://localhost:11434)
  OLLAMA_NUM_CTX          Ollama context window (default: 8192)
  AGENT_TIMEOUT           Timeout per agent request (default: 2m)
  AGENT_RETRIES           Retries per agent request (default: 3)
  ROLES                   Comma separated roles, "Name:count" repeats (default: 15 player game)
  FIRST_DAY_SPEAK_ROUNDS  Speaking rounds on day 1 (default: 1)
  DAY_SPEAK_ROUNDS        Speaking rounds on later days (default: 3)
  MAX_DAYS                Declare a draw after this many days, 0 disables (default: 30)
  VOTE_TIE_POLICY         "first" lynches the earliest voted of the tied, "none" lynches nobody
  TRANSCRIPT_FILE         Transcript path (default: game_history.txt)
  ARCHIVE_DB              SQLite archive path (optional)
  DEBUG_DIR               Dump every prompt and response here (optional)
  GM_USER, GM_PASS        Basic auth for the spectator API
  LOG_LEVEL               zerolog level (default: info)
`, os.Args[0])
		return 0
	}

	if *showVersion {
		fmt.Printf("GPTmafia %s\n", version)
		return 0
	}

	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	logger := zerologlog.Logger

	providers := map[string]ai.Provider{
		"ollama": ollama.New(cfg.OllamaHost, cfg.OllamaNumCtx),
		"openai": openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL),
	}
	provider := providers[strings.ToLower(cfg.DefaultProvider)]
	if provider == nil {
		logger.Error().Str("provider", cfg.DefaultProvider).Msg("unknown provider")
		return 1
	}
	agent := ai.NewAgent(provider, ai.AgentConfig{
		Model:        cfg.DefaultModel,
		SystemPrefix: cfg.SystemPrompt,
		Timeout:      cfg.AgentTimeout,
		Retries:      cfg.AgentRetries,
		DebugDir:     cfg.DebugDir,
		Logger:       logger,
	})

	roleSet, err := roles.Parse(cfg.Roles)
	if err != nil {
		logger.Error().Err(err).Msg("invalid roles")
		return 1
	}
	tie, err := game.ParseTiePolicy(cfg.VoteTiePolicy)
	if err != nil {
		logger.Error().Err(err).Msg("invalid vote tie policy")
		return 1
	}
	settings := game.Settings{
		FirstDaySpeakRounds: cfg.FirstDaySpeakRounds,
		DaySpeakRounds:      cfg.DaySpeakRounds,
		MaxDays:             cfg.MaxDays,
		TiePolicy:           tie,
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []game.Option{
		game.WithRand(rand.New(rand.NewSource(seed))),
		game.WithTranscript(game.NewFileTranscript(cfg.TranscriptFile)),
		game.WithLogger(logger),
	}

	if cfg.ArchiveDB != "" {
		store, err := archive.Open(cfg.ArchiveDB, logger)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.ArchiveDB).Msg("failed to open archive")
			return 1
		}
		defer store.Close()
		opts = append(opts, game.WithObserver(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Port != "" {
		hub := ws.New(cfg)
		router, io := newRouter(hub)
		defer io.Close()
		srv = &http.Server{Addr: ":" + cfg.Port, Handler: router}
		opts = append(opts, game.WithObserver(hub))
		go func() {
			logger.Info().Str("port", cfg.Port).Msg("spectator server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("spectator server failed")
			}
		}()
	}

	g, err := game.New(settings, agent, roleSet, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to set up game")
		return 1
	}
	logger.Info().Str("game", g.ID()).Int64("seed", seed).Str("model", cfg.DefaultModel).Msg("starting game")

	code := 0
	winner, err := g.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Str("transcript", cfg.TranscriptFile).Msg("game aborted")
		code = 1
	} else {
		logger.Info().Str("winner", string(winner)).Int("days", g.Day()).Int64("turns", agent.Turns()).Msg("game finished")
	}

	if srv != nil {
		if code == 0 {
			logger.Info().Msg("spectator server stays up until interrupted")
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return code
}

func newRouter(hub *ws.Hub) (*gin.Engine, *socketio.Server) {
	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})
	io := hub.Mount(r)
	return r, io
}
