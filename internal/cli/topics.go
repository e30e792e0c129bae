package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/store"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect stored topics and investigation results",
}

var topicsEligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List topics matching the escalation trigger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Init(cfg.Logging.Level)

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		topics, err := st.EligibleForEscalation(ctx, store.EscalationPolicy{
			ImportanceFloor: cfg.Escalation.ImportanceFloor,
			MinSources:      cfg.Verification.MinCredibleSources,
			Reinvestigate:   cfg.Escalation.Reinvestigate,
			Cooldown:        cfg.Escalation.Cooldown,
		})
		if err != nil {
			return err
		}

		if len(topics) == 0 {
			fmt.Println("no topics eligible for escalation")
			return nil
		}
		for _, t := range topics {
			fmt.Printf("%s  %3d  %-20s  %s\n",
				t.ID, t.NewsworthinessScore, t.VerificationStatus, t.Title)
		}
		return nil
	},
}

var topicsResultCmd = &cobra.Command{
	Use:   "result <topic-id>",
	Short: "Show the latest investigation result for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.Init(cfg.Logging.Level)

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := st.LatestInvestigation(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsEligibleCmd)
	topicsCmd.AddCommand(topicsResultCmd)
}
