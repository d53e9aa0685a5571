package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tableread/go-tableread/internal/config"
	"github.com/tableread/go-tableread/internal/log"
	"github.com/tableread/go-tableread/pkg/cast"
	"github.com/tableread/go-tableread/pkg/script"
	"github.com/tableread/go-tableread/pkg/studio"
	"github.com/tableread/go-tableread/pkg/tts"
	"github.com/tableread/go-tableread/pkg/wav"
)

func main() {
	scriptPath := flag.String("script", "", "Path to the script text file (required)")
	outPath := flag.String("out", "tableread.wav", "Output WAV path")
	apiKey := flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	registryPath := flag.String("registry", config.RegistryPath(), "Voice registry JSON path")
	delay := flag.Duration("delay", studio.DefaultDelay, "Pause between synthesis requests")
	parseOnly := flag.Bool("parse-only", false, "Print the parsed cast and segments, skip synthesis")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*level)

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: tableread -script script.txt [-out tableread.wav]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	text, err := os.ReadFile(*scriptPath)
	if err != nil {
		log.Error("failed to read script", "path", *scriptPath, "error", err)
		os.Exit(1)
	}

	// Parse and cast
	lines := script.NewSegmenter(nil).Parse(string(text))
	segments := script.Group(lines)
	speakers := script.Speakers(lines)

	if len(segments) == 0 {
		log.Error("no dialogue found in script", "path", *scriptPath)
		os.Exit(1)
	}

	registry, err := cast.NewJSONRegistry(*registryPath)
	if err != nil {
		log.Warn("voice registry unavailable, using defaults", "error", err)
	}
	var reg cast.Registry
	if registry != nil {
		reg = registry
	}
	members := cast.Recast(nil, speakers, reg)

	fmt.Printf("Parsed %d lines into %d segments\n", len(lines), len(segments))
	fmt.Println("Cast:")
	for _, m := range members {
		fmt.Printf("  %-20s voice=%-8s pitch=%.2f\n", m.Name, m.Voice, m.Pitch)
	}

	if *parseOnly {
		for i, seg := range segments {
			fmt.Printf("[%02d] %s: %s\n", i+1, seg.Speaker, seg.Text)
		}
		return
	}

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

	// Cancel the run on Ctrl-C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nCancelling...")
		cancel()
	}()

	assembler := studio.New(provider,
		studio.WithDelay(*delay),
		studio.WithLogger(log.L()),
	)

	start := time.Now()
	result, err := assembler.Generate(ctx, segments, cast.ByName(members), func(ev studio.Event) {
		if ev.Stage == studio.StageSynthesize {
			fmt.Printf("  [%d/%d] %s\n", ev.Segment, ev.Total, ev.Speaker)
		}
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if err := wav.WriteFile(*outPath, result.Buffer); err != nil {
		log.Error("failed to write WAV", "path", *outPath, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%s of audio, %d segments) in %s\n",
		*outPath, result.Duration.Round(time.Millisecond), result.Segments,
		time.Since(start).Round(time.Second))
}
