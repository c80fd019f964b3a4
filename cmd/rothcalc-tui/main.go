package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/logging"
	"github.com/rgehrsitz/rothcalc/internal/tui"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: rothcalc-tui <profile-file> [tables-file]")
		os.Exit(1)
	}
	profilePath := os.Args[1]

	if _, err := os.Stat(profilePath); os.IsNotExist(err) {
		fmt.Printf("Error: Profile file not found: %s\n", profilePath)
		os.Exit(1)
	}

	tables := calculation.DefaultTableSet()
	if len(os.Args) == 3 {
		var err error
		if tables, err = config.NewInputParser().LoadTablesFromFile(os.Args[2]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	// the terminal belongs to the TUI; logs go to a file when asked for
	log := logging.Nop()
	if path := os.Getenv("ROTHCALC_LOG_FILE"); path != "" {
		l, err := logging.New(logging.Config{Level: "debug", Format: "json", Output: path})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		log = l
	}

	engine, err := calculation.NewProjectionEngine(tables,
		calculation.WithLogger(log),
		calculation.WithCache(calculation.NewResultCache(0)),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(profilePath, engine),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
