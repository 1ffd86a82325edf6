// Copyright 2025 The WordBoost Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs a wordboost engine as a msgpack IPC server or as a CLI
[DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

WordBoost turns key presses into ranked word candidates. Typed text goes
through a chain of transliteration methods, is matched accent-insensitively
against the words the user committed before, hunspell dictionaries and
emoji annotations, and the chosen candidate is committed and counted.

# Usage

Start the server with default settings:

	wordboost

Use a custom config file and enable debug mode:

	wordboost -config ~/wb.toml -d

Run in CLI mode and type key scripts:

	wordboost -c
	> cerule<F1>

# Configuration

The config file is created with defaults if it does not exist:

	[engine]
	page_size = 6
	candidate_pages = 3
	current_imes = ["NoIME"]
	dictionary_names = ["en_US"]

	[paths]
	dictionary_dir = "/usr/share/myspell"

	[server]
	max_pending = 64

	[keybindings]
	commit_candidate_1_plus_space = ["1", "KP_1", "F1"]

WORDBOOST_* environment variables override file values. Edits to the file
are applied while the server runs.

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-db string
	    Phrase database, ":memory:" keeps nothing on disk
	-emoji string
	    Emoji annotation YAML replacing the built-in list
	-d  Enable debug mode with detailed logging
	-c  Run CLI -- useful for testing and debugging
	-reset-config
	    Overwrite the default config file with defaults and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordboost/internal/cli"
	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/pkg/config"
	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/emoji"
	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/server"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordboost"
	gh      = "https://github.com/bastiangx/wordboost"
)

// sigHandler cancels ctx on an OS signal and exits if the loop does not
// return in time.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(0)
	}()
}

// main wires the packages together and only manages the flow.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file")
	dbPath := flag.String("db", "", "Phrase database path (\":memory:\" for none)")
	emojiPath := flag.String("emoji", "", "Emoji annotation YAML replacing the built-in list")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	resetConfig := flag.Bool("reset-config", false, "Overwrite the default config file with defaults and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at (%s)\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		appConfig.Paths.UserDB = *dbPath
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	st, err := openStore(ctx, appConfig.UserDBPath())
	if err != nil {
		log.Fatalf("Failed to open phrase database: %v", err)
	}
	defer st.Close()

	emojis, err := loadEmoji(*emojiPath)
	if err != nil {
		log.Fatalf("Failed to load emoji annotations: %v", err)
	}

	loader := dictionary.NewLoader(appConfig.DictionaryDirs()...)
	session, err := engine.NewSession(appConfig, loader)
	if err != nil {
		log.Warnf("Session started with errors: %v", err)
	}
	gen := suggest.NewGenerator(st, emojis)

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(gen, session)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(gen, session, appConfig, activePath)
	srv.SetVersion(Version)
	if activePath != "" {
		watcher, err := config.NewWatcher(activePath)
		if err != nil {
			log.Warnf("Config changes will not be picked up: %v", err)
		} else {
			defer watcher.Close()
			srv.Watch(watcher)
		}
	}

	showStartupInfo(appConfig, activePath)

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		log.Errorf("Server stopped: %v", err)
		st.Close()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, path string) (store.Store, error) {
	if path == store.MemoryPath {
		log.Debug("Phrases are kept in memory only")
		return store.NewMemory(), nil
	}
	return store.OpenSQLite(ctx, path)
}

func loadEmoji(path string) (*emoji.Index, error) {
	if path == "" {
		return emoji.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return emoji.Load(f)
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordBoost ] Predictive typing that learns as you go!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(c *config.Config, configPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " WordBoost ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("phrases: ( %s )", c.UserDBPath())
	log.Info("input methods", "order", c.Engine.CurrentIMEs)
	log.Info("dictionaries", "names", c.Engine.DictionaryNames)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
