// Command mock-backend serves an in-memory copy of the platform API under
// /api, so the seeder can be tried without a real backend.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/serisow/lesocle-seeder/config"
	"github.com/serisow/lesocle-seeder/mock_backend"
)

type mockConfig struct {
	Port        string `env:"MOCK_PORT" envDefault:"8087"`
	ClientID    string `env:"MOCK_CLIENT_ID"`
	Credentials config.Credentials
	// TokenIn selects where /authenticate returns the token: header, body or both.
	TokenIn  string        `env:"MOCK_TOKEN_IN" envDefault:"both"`
	TokenTTL time.Duration `env:"MOCK_TOKEN_TTL" envDefault:"1h"`
}

func main() {
	var cfg mockConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("mock-backend: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	srv, err := mock_backend.New(mock_backend.Options{
		ClientID:        cfg.ClientID,
		AdminUsername:   cfg.Credentials.Username,
		AdminPassword:   cfg.Credentials.Password,
		TokenTTL:        cfg.TokenTTL,
		OmitTokenHeader: cfg.TokenIn == config.TokenSourceBody,
		OmitTokenBody:   cfg.TokenIn == config.TokenSourceHeader,
		Logger:          logger,
	})
	if err != nil {
		config.Exitf("%v", err)
	}

	router := mux.NewRouter()
	srv.Mount(router.PathPrefix("/api").Subrouter())

	s := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Wrap(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("mock backend listening",
		slog.String("addr", s.Addr),
		slog.String("client_id", srv.ClientID()),
		slog.String("admin", cfg.Credentials.Username))
	log.Fatal(s.ListenAndServe())
}
