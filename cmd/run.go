package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/api"
	"github.com/priyam/numsense/internal/app"
	"github.com/priyam/numsense/internal/llm"
	"github.com/priyam/numsense/internal/questions"
	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/screens/history"
	"github.com/priyam/numsense/internal/screens/report"
	"github.com/priyam/numsense/internal/screens/test"
	"github.com/priyam/numsense/internal/screens/welcome"
	"github.com/priyam/numsense/internal/store"
)

// runApp opens the store, probes the backend, builds the question source
// chain, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	repo := st.Screenings()

	client := probeBackend(ctx)
	if client == nil {
		fmt.Fprintln(os.Stderr, "Screening backend unreachable; running fully offline.")
	}

	sources := buildSources(ctx, client)
	sess := screening.NewSession()

	var welcomeFactory func() screen.Screen
	historyFactory := func() screen.Screen {
		return history.New(repo, func() screen.Screen { return welcomeFactory() })
	}
	welcomeFactory = func() screen.Screen {
		return welcome.New(welcome.Config{
			Client:  client,
			History: historyFactory,
			Start: func(age screening.AgeGroup, sessionID string) screen.Screen {
				sess.SetAgeGroup(age)
				sess.SetSessionID(sessionID)
				tracker := adaptive.NewTracker(age)

				return test.New(test.Config{
					Session: sess,
					Source:  sources,
					Tracker: tracker,
					Client:  client,
					Repo:    repo,
					Report: func() screen.Screen {
						return report.New(report.Config{
							Session: sess,
							Tracker: tracker,
							Restart: welcomeFactory,
							History: historyFactory,
						})
					},
				})
			},
		})
	}

	return app.Run(welcomeFactory(), sess)
}

// probeBackend returns a client only when the backend answers a health
// check quickly; otherwise the app runs on local sources.
func probeBackend(ctx context.Context) *api.Client {
	cfg := api.ConfigFromEnv()
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		return nil
	}
	return client
}

// buildSources chains the question sources: backend first, then local
// LLM generation when a key is configured, then the built-in banks.
func buildSources(ctx context.Context, client *api.Client) questions.Chain {
	var chain questions.Chain

	if client != nil {
		chain = append(chain, questions.NewAPISource(client))
	}

	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		// No explicit provider config; probe the standard key variables.
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	if cfg.Validate() == nil {
		if provider, err := llm.NewProvider(ctx, cfg); err == nil {
			chain = append(chain, questions.NewLLMSource(provider))
		}
	}

	chain = append(chain, questions.NewStaticSource(uint64(time.Now().UnixNano())))
	return chain
}
