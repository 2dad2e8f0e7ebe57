// Mishap is a Sierra-style text adventure: recover the Royal Pudding
// before dinner time.
// Usage: mishap [--version] [--plain] [--script <file>]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nathoo/mishap/cli"
	"github.com/nathoo/mishap/config"
	"github.com/nathoo/mishap/content"
	"github.com/nathoo/mishap/engine"
	"github.com/nathoo/mishap/store"
	"github.com/nathoo/mishap/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("mishap %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			fmt.Fprintf(os.Stderr, "Usage: mishap [--version] [--plain] [--script <file>]\n")
			os.Exit(1)
		}
	}

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	saves, err := openStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save store: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(content.MustNew, saves, cfg.SaveKey, logger)
	eng.Reseed(time.Now().UnixNano())

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Sleep = func(time.Duration) {} // scripts don't wait out deaths
		c.Run()
		return
	}

	// Use the plain CLI if --plain or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(eng).Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore picks redis when configured, otherwise on-disk saves.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.RedisAddr != "" {
		return store.NewRedisStore(cfg.RedisAddr, logger), nil
	}
	return store.NewFileStore(cfg.SaveDir)
}

// isTerminal returns true if stdout is a terminal (not piped).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
