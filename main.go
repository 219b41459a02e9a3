package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"vault-wallet-tui/config"
	"vault-wallet-tui/metrics"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	path := config.DefaultPath()
	cfg := config.LoadEnv(config.LoadOrCreate(path))
	if err := cfg.Validate(); err != nil {
		fmt.Println("config:", err)
		fmt.Printf("edit %s or set %s\n", path, config.EnvContractAddress)
		os.Exit(1)
	}

	var reg *metrics.Registry
	if cfg.MetricsAddr != "" {
		reg = metrics.New()
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           reg.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(os.Stderr, "metrics:", err)
			}
		}()
		defer srv.Close()
	}

	m := newModel(cfg, path, reg)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
