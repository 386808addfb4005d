// summarizerd is the summarization service behind the viewer: it accepts
// exported chat transcripts, filters them by date range and asks an LLM for
// a summary.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/areeb-coder/whatsapp-summarizer/internal/llm"
	"github.com/areeb-coder/whatsapp-summarizer/internal/server"
)

func main() {
	configPath := flag.String("config", "summarizerd.yml", "path to the YAML config file")
	writeConfig := flag.Bool("write-config", false, "write the default config to the -config path and exit")
	flag.Parse()

	if *writeConfig {
		if err := server.DefaultConfig().Save(*configPath); err != nil {
			log.Fatalf("writing config: %v", err)
		}
		log.Printf("wrote default config to %s", *configPath)
		return
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("configuring provider: %v", err)
	}

	srv := server.New(*cfg, provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// buildProvider wires the primary API key and, when configured, the
// fallback key used after quota exhaustion.
func buildProvider(cfg *server.Config) (llm.Provider, error) {
	primary, err := llm.NewProvider(cfg.Provider, cfg.Model, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	fallbackKey := cfg.APIKeyFallback
	if fallbackKey == "" && cfg.Provider == "google" {
		fallbackKey = os.Getenv("GEMINI_API_KEY1")
	}
	if fallbackKey == "" {
		return primary, nil
	}
	secondary, err := llm.NewProvider(cfg.Provider, cfg.Model, fallbackKey)
	if err != nil {
		return nil, err
	}
	return llm.NewFallback(primary, secondary), nil
}
