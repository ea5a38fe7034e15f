// Command swung runs the scheduling assistant service: the HTTP API, the
// websocket alarm channel, and the background alarm scheduler.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/swunglabs/swung/internal/api"
	"github.com/swunglabs/swung/internal/auth"
	"github.com/swunglabs/swung/internal/config"
	"github.com/swunglabs/swung/internal/executor"
	"github.com/swunglabs/swung/internal/llm"
	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/notify"
	"github.com/swunglabs/swung/internal/push"
	"github.com/swunglabs/swung/internal/resolver"
	"github.com/swunglabs/swung/internal/scheduler"
	"github.com/swunglabs/swung/internal/services"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/store/postgres"
	"github.com/swunglabs/swung/internal/store/sqlite"
	"github.com/swunglabs/swung/internal/timeutil"
)

func main() {
	dbDriver := flag.String("db-driver", "", "Override SWUNG_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("swung")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("invalid db-driver override")
		}
	}

	clk, err := timeutil.NewClock(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone")
	}

	// -------- Storage layer -----------------
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		st, err = postgres.Open(cfg.PostgresDSN, clk.NowString)
	default:
		st, err = sqlite.Open(cfg.SQLitePath, clk.NowString)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open store")
	}
	defer func() { _ = st.Close() }()

	// -------- Assistant pipeline ------------
	creds := llm.NewFileTokenSource(cfg.CopilotTokenFile, resty.New())
	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second, creds)
	res := resolver.New(client, clk, cfg.Timezone, cfg.ContextEventLimit)
	exec := executor.New(st, clk)
	assistant := services.NewAssistantService(st, res, exec, clk, cfg.ContextEventLimit)
	schedule := services.NewScheduleService(st, clk)

	// -------- Alarm delivery ----------------
	hub := notify.NewHub()
	sender := push.NewSender(cfg.FCMEndpoint, cfg.FCMServerKey, st.PushTokens())
	fanout := notify.NewFanout(hub, sender)

	sched := scheduler.New(st.Alarms(), clk, fanout, time.Duration(cfg.SchedulerIntervalSeconds)*time.Second)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start alarm scheduler")
	}

	// -------- Router & server ---------------
	router := api.NewRouter(api.Deps{
		Assistant:  assistant,
		Schedule:   schedule,
		Store:      st,
		Hub:        hub,
		Push:       sender,
		Authorizer: auth.NewHeaderAuthorizer(st.Users()),
		Clock:      clk,
	})
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sched.Stop(ctxShutdown); err != nil {
		log.Warn().Err(err).Msg("scheduler did not stop cleanly")
	}
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
