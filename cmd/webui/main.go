// Command webui serves the server-rendered board frontend. It talks
// to the corkboard API over HTTP like any other client.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/nasermirzaei89/corkboard/client"
	"github.com/nasermirzaei89/corkboard/random"
	"github.com/nasermirzaei89/corkboard/server"
	"github.com/nasermirzaei89/corkboard/web"
	"github.com/nasermirzaei89/env"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	err := run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run web ui", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	apiClient := client.New(env.GetString("API_BASE_URL", "http://localhost:5050"), nil)

	sessionName := env.GetString("SESSION_NAME", "corkboard-"+random.String(4))
	sessionKey := env.GetString("SESSION_KEY", random.String(32))
	cookieStore := sessions.NewCookieStore([]byte(sessionKey))

	handler, err := web.NewHandler(apiClient, cookieStore, sessionName)
	if err != nil {
		return err
	}

	srv := &server.Server{
		Port: env.GetString("PORT", "3000"),
		Host: env.GetString("HOST", ""),
	}

	return srv.Run(ctx, handler)
}
