package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/halvden/adminboard/internal/client"
	"github.com/halvden/adminboard/internal/config"
	"github.com/halvden/adminboard/internal/credstore"
	"github.com/halvden/adminboard/internal/session"
	"github.com/halvden/adminboard/internal/ui"
	"github.com/halvden/adminboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.Log.Level, Path: cfg.Log.File})

	store, err := credstore.Open(cfg.State.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open credential store: %v\n", err)
		os.Exit(1)
	}

	api := client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(log),
	)

	sess := session.New(client.NewAuthAPI(api), store, log)

	// The client reads the credential through the session and reports
	// rejected credentials back to it. Wired once, here, so neither side
	// holds a global.
	api.SetTokenSource(sess)
	api.SetAuthFailureHandler(sess.HandleAuthFailure)

	model := ui.NewModel(sess, api, client.NewItemsAPI(api), client.NewUsersAPI(api))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
