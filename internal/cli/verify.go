package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var verifyTimeout time.Duration

var verifyCmd = &cobra.Command{
	Use:   "verify [topic-id]",
	Short: "Verify approved topics awaiting verification",
	Long: `Verify runs the primary verification pass.

Without arguments it drains the queue of approved topics, most
newsworthy first, escalating eligible under-evidenced topics in the
same run. With a topic id it verifies that single topic.

Example:
  dwverify verify
  dwverify verify 7f3a2c
  dwverify verify --timeout 30m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 1*time.Hour, "overall run timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, st, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if len(args) == 1 {
		topic, err := runner.RunTopic(ctx, args[0])
		if err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
		fmt.Printf("%s  %s  (%d credible sources, %d academic citations)\n",
			topic.ID, topic.VerificationStatus, topic.SourceCount, topic.AcademicCitationCount)
		return nil
	}

	sum, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processed %d topic(s)\n", sum.Processed)
	}
	fmt.Printf("processed: %d  verified: %d  certified: %d  partial: %d  insufficient: %d  failed: %d  escalated: %d\n",
		sum.Processed, sum.Verified, sum.Certified, sum.Partial, sum.Insufficient, sum.Failed, sum.Escalated)
	return nil
}
