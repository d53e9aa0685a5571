package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tableread/go-tableread/internal/config"
	"github.com/tableread/go-tableread/internal/log"
	"github.com/tableread/go-tableread/pkg/cast"
	"github.com/tableread/go-tableread/pkg/tts"
	"github.com/tableread/go-tableread/pkg/web"
)

func main() {
	port := flag.String("port", config.Port(), "HTTP listen port")
	apiKey := flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	registryPath := flag.String("registry", config.RegistryPath(), "Voice registry JSON path")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*level)

	key := *apiKey
	if key == "" {
		key = config.GeminiAPIKeyRequired()
	}

	provider, err := tts.NewGemini(
		tts.WithAPIKey(key),
		tts.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("failed to create provider", "error", err)
		os.Exit(1)
	}
	defer provider.Close()

	var registry cast.Registry
	if r, err := cast.NewJSONRegistry(*registryPath); err != nil {
		log.Warn("voice registry unavailable, using defaults", "error", err)
	} else {
		registry = r
	}

	server := web.NewServer(*port, provider, registry)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
