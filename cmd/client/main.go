package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"chatrelay/internal/client"
	"chatrelay/internal/config"
)

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	model := client.NewApp(cfg)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("client exited: %v", err)
	}
}
