// Package main is the Bunseki CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/config"
	"github.com/hyperjump/bunseki/internal/detect"
	"github.com/hyperjump/bunseki/internal/extract"
	"github.com/hyperjump/bunseki/internal/generate"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/ocr"
	"github.com/hyperjump/bunseki/internal/pipeline"
	"github.com/hyperjump/bunseki/internal/quota"
	"github.com/hyperjump/bunseki/internal/server"
	"github.com/hyperjump/bunseki/internal/throttle"
	"github.com/hyperjump/bunseki/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bunseki/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "version", "--version", "-v":
		fmt.Printf("bunseki version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the wired pipeline collaborators for a run.
type Components struct {
	Pipeline *pipeline.Pipeline
	Usage    *quota.Store
}

// Close releases component resources.
func (c *Components) Close() {
	if c.Usage != nil {
		_ = c.Usage.Close()
	}
}

// initializeComponents wires the pipeline from config: usage store,
// throttle, extractor with optional OCR, provider client, and the
// language detector.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	usage, err := quota.OpenStore(cfg.Usage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open usage store: %w", err)
	}

	var recognizer extract.OCR
	if cfg.OCR.EnabledOrDefault() {
		recognizer = ocr.NewEngine(cfg.OCR.Languages)
	}

	client := generate.NewOpenAI(generate.Options{
		APIKey:    cfg.Provider.APIKey(),
		BaseURL:   cfg.Provider.BaseURL,
		Model:     cfg.Provider.Model,
		MaxTokens: cfg.Provider.MaxTokens,
	})

	p := pipeline.New(
		throttle.New(),
		extract.NewExtractor(recognizer),
		usage,
		client,
		detect.New(),
		logger,
		time.Duration(cfg.Provider.TimeoutSeconds)*time.Second,
	)
	return &Components{Pipeline: p, Usage: usage}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Pipeline, components.Usage, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	feature := fs.String("feature", "", "processing feature (summarize, grammar_correct, translate, explain, convert, generate_questions, generate_answers)")
	filePath := fs.String("file", "", "document file to process (pdf, docx, txt, jpg, jpeg)")
	text := fs.String("text", "", "pasted text to process")
	targetLanguage := fs.String("target-language", "", "target language for translate")
	questions := fs.String("questions", "", "newline-separated numbered questions for generate_answers")
	tier := fs.String("tier", string(models.TierFree), "user tier")
	_ = fs.Parse(os.Args[2:])

	if *feature == "" {
		fmt.Println("process: -feature is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	req := pipeline.Request{
		ClientKey:      "cli",
		Tier:           models.Tier(*tier),
		Feature:        models.Feature(*feature),
		TargetLanguage: *targetLanguage,
	}
	if *questions != "" {
		req.Questions = splitQuestions(*questions)
	}
	switch {
	case *filePath != "":
		content, err := os.ReadFile(*filePath)
		if err != nil {
			fmt.Printf("Failed to read file: %v\n", err)
			os.Exit(1)
		}
		req.File = &pipeline.FileUpload{Filename: filepath.Base(*filePath), Content: content}
	case *text != "":
		req.Text = text
	default:
		fmt.Println("process: provide -file or -text")
		os.Exit(1)
	}

	result, err := components.Pipeline.Process(context.Background(), req)
	if err != nil {
		fmt.Printf("Processing failed: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

// splitQuestions parses a newline-separated question list, dropping
// blank lines.
func splitQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`bunseki - contract-enforced AI document processing

Usage:
  bunseki server [-config path] [-debug]     Start the HTTP API server
  bunseki process -feature <f> (-file path | -text "...") [flags]
                                             Process a document once and print the result
  bunseki version                            Print version
  bunseki help                               Show this help

Process flags:
  -target-language   Target language (required for translate)
  -questions         Newline-separated numbered questions (required for generate_answers)
  -tier              User tier label (default "free")`)
}
