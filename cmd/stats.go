package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/priyam/numsense/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show screening history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		stats, err := st.Screenings().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		if stats.TotalScreenings == 0 {
			fmt.Println("No screenings recorded yet.")
			return nil
		}

		fmt.Printf("Screenings:     %d\n", stats.TotalScreenings)
		fmt.Printf("Avg accuracy:   %.1f%%\n", stats.AvgAccuracy)
		if !stats.LastCompletedAt.IsZero() {
			fmt.Printf("Last completed: %s\n", stats.LastCompletedAt.Format("2006-01-02 15:04"))
		}
		for _, level := range []string{"low", "medium", "high"} {
			if n, ok := stats.ByRiskLevel[level]; ok {
				fmt.Printf("Risk %-7s %d\n", level+":", n)
			}
		}
		return nil
	},
}
