package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xingmeng/stardream/internal/config"
	"github.com/xingmeng/stardream/internal/engine"
	"github.com/xingmeng/stardream/internal/logger"
	"github.com/xingmeng/stardream/internal/services"
	"github.com/xingmeng/stardream/internal/storage"
)

// logFileName receives all slog output. Writing to stderr would tear
// the alternate screen apart while the program runs.
const logFileName = "stardream.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, logFile)

	var store storage.SaveStore
	if cfg.RedisAddr != "" {
		store = storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, log)
	} else {
		store = storage.NewMemoryStore()
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	var tracker services.Tracker = services.NopTracker{}
	if cfg.UmamiURL != "" && cfg.UmamiSiteID != "" {
		tracker = services.NewUmamiService(cfg.UmamiURL, cfg.UmamiSiteID, log)
	}

	llm := services.NewOpenAIService(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log)
	eng := engine.New(llm, store, tracker, log)

	p := tea.NewProgram(NewConsoleUI(eng),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
