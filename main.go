package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/todo-tui/internal/config"
	"github.com/pdxmph/todo-tui/internal/export"
	"github.com/pdxmph/todo-tui/internal/storage"
	_ "github.com/pdxmph/todo-tui/internal/storage/jsonfile"
	_ "github.com/pdxmph/todo-tui/internal/storage/sqlstore"
	"github.com/pdxmph/todo-tui/internal/task"
	"github.com/pdxmph/todo-tui/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run does all the work so deferred cleanup happens before main exits
func run() error {
	configPath := flag.String("config", config.DefaultPath(), "config file")
	backendName := flag.String("backend", "", "storage backend (overrides config)")
	location := flag.String("path", "", "storage path, or DSN for mysql (overrides config)")
	fixtures := flag.Bool("fixtures", false, "seed sample tasks into empty storage and exit")
	exportFormat := flag.String("export", "", "export the task list (json, csv, pdf) and exit")
	output := flag.String("o", "", "export output file (default stdout)")
	ephemeral := flag.Bool("ephemeral", false, "keep tasks in memory only")
	writeConfig := flag.Bool("write-config", false, "write the effective config and exit")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		return err
	}

	if *backendName != "" {
		cfg.Storage.Backend = *backendName
	}
	if *location != "" {
		if cfg.Storage.Backend == "mysql" {
			cfg.Storage.DSN = *location
		} else {
			cfg.Storage.Path = *location
		}
	}
	if *ephemeral {
		cfg.Storage.Backend = "memory"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *writeConfig {
		if err := cfg.SaveTo(*configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *configPath)
		return nil
	}

	interactive := !*fixtures && *exportFormat == ""
	if err := setupLogging(cfg, interactive); err != nil {
		return err
	}

	manager, err := storage.NewManager(cfg.Storage.Backend, cfg.Location(), storage.CorruptPolicy(cfg.Storage.OnCorrupt))
	if err != nil {
		return err
	}
	defer manager.Close()

	if *fixtures {
		n, err := storage.Seed(manager.Backend(), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d tasks into %s\n", n, manager.Backend().Location())
		return nil
	}

	store, err := manager.OpenStore()
	if err != nil {
		return err
	}

	if *exportFormat != "" {
		return runExport(store.Tasks(), *exportFormat, *output)
	}

	// Start the program
	p := tea.NewProgram(tui.New(store, cfg.DefaultPriority()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// setupLogging keeps log output off the terminal while the TUI owns it
func setupLogging(cfg *config.Config, interactive bool) error {
	path := cfg.Log.Path
	if path == "" && os.Getenv("TODO_TUI_DEBUG") != "" {
		path = filepath.Join(config.Dir(), "debug.log")
	}

	if path == "" {
		if interactive {
			log.SetOutput(io.Discard)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	if _, err := tea.LogToFile(path, config.AppName); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	return nil
}

func runExport(tasks []task.Task, format, outPath string) error {
	if outPath == "" {
		return export.Write(os.Stdout, tasks, format)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.Write(f, tasks, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
