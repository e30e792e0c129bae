package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailyworker-news/DWnews-sub003/internal/llm"
)

var (
	investigatePriority bool
	investigateForce    bool
)

var investigateCmd = &cobra.Command{
	Use:   "investigate [topic-id]",
	Short: "Run the deep investigation on under-evidenced topics",
	Long: `Investigate escalates topics the primary pass could not verify:
wider multi-engine search with a 30-day look-back, origin tracing,
cross-reference re-validation, and social media evidence gathering.

Without arguments it sweeps all stored topics matching the escalation
trigger. With a topic id it investigates that topic, subject to the
same eligibility predicate unless --force is given.

Example:
  dwverify investigate
  dwverify investigate 7f3a2c
  dwverify investigate 7f3a2c --priority --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvestigate,
}

func init() {
	rootCmd.AddCommand(investigateCmd)

	investigateCmd.Flags().BoolVar(&investigatePriority, "priority", false, "double the time budget for this investigation")
	investigateCmd.Flags().BoolVar(&investigateForce, "force", false, "bypass the eligibility predicate (topic must still be approved)")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Escalation.Enabled = true
	if investigatePriority {
		cfg.Escalation.TimeBudget *= 2
	}

	runner, st, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	if len(args) == 0 {
		sum, err := runner.RunEscalations(ctx)
		if err != nil {
			return fmt.Errorf("investigation sweep failed: %w", err)
		}
		fmt.Printf("escalated: %d  verified: %d  certified: %d  failed: %d\n",
			sum.Escalated, sum.Verified, sum.Certified, sum.Failed)
		return nil
	}

	res, err := runner.InvestigateTopic(ctx, args[0], investigateForce)
	if err != nil {
		return fmt.Errorf("investigation failed: %w", err)
	}

	fmt.Printf("investigation %s\n", res.ID)
	fmt.Printf("  recommended: %s  confidence: %.2f\n", res.Recommended, res.Confidence)
	fmt.Printf("  sources: %d  claims verified: %d  disputed: %d\n",
		len(res.AdditionalSources), len(res.VerifiedClaims), len(res.DisputedClaims))
	if res.OriginatingSource != nil {
		fmt.Printf("  origin: %s (tier %d) %s\n",
			res.OriginatingSource.Name, res.OriginatingSource.CredibilityTier, res.OriginatingSource.URL)
	}
	if res.NeedsHumanReview {
		fmt.Printf("  HUMAN REVIEW: %s\n", res.ReviewReason)
	}
	fmt.Printf("  %s\n", res.Notes)

	// Optional editor digest; failures never affect the result above.
	digester, err := llm.NewDigester(cfg.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "digest disabled: %v\n", err)
		return nil
	}
	if digester != nil {
		urls := make([]string, 0, len(res.AdditionalSources))
		for _, s := range res.AdditionalSources {
			urls = append(urls, s.URL)
		}
		topic, err := st.GetTopic(ctx, args[0])
		if err != nil {
			return nil
		}
		digest, err := digester.Digest(ctx, llm.DigestRequest{
			Topic:        topic,
			Result:       res,
			EvidenceURLs: urls,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "digest failed: %v\n", err)
			return nil
		}
		fmt.Printf("\ndigest (%s):\n%s\n", digest.Model, digest.Text)
	}
	return nil
}
