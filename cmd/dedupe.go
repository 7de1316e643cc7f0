package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"provider-dedupe/core/archive"
	"provider-dedupe/core/config"
	"provider-dedupe/core/database"
	"provider-dedupe/core/logger"
	"provider-dedupe/core/store"
	"provider-dedupe/feature/dedupe"
	"provider-dedupe/feature/dedupe/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for dedupe run command
	removeDuplicates bool
	dryRunDedupe     bool
	yesConfirm       bool
)

// dedupeCmd is the parent command for all dedupe operations.
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Deduplicate provider records in the store",
	Long: `Deduplicate provider records: cluster duplicates, merge each cluster into
one canonical record, and reconcile the store to match.`,
}

// dedupeRunCmd executes a deduplication run.
var dedupeRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run deduplication (plan + apply)",
	Long: `Run deduplication over the record store.

Builds the mutation plan, reports it, and applies it. Removal of absorbed
duplicates is off unless explicitly enabled.

Examples:
  # Plan and apply merges (no removals)
  dedupe run

  # Report only, apply nothing
  dedupe run --dry-run

  # Also remove absorbed duplicates (with interactive confirmation)
  dedupe run --remove

  # Remove with auto-confirm (non-interactive)
  dedupe run --remove --yes`,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.AddCommand(dedupeRunCmd)

	dedupeRunCmd.Flags().BoolVar(&removeDuplicates, "remove", false, "Enable removal of absorbed duplicate records")
	dedupeRunCmd.Flags().BoolVar(&dryRunDedupe, "dry-run", false, "Build and report the plan without applying it")
	dedupeRunCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm removals (non-interactive)")

	RootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting deduplication")

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	recordStore := store.New(db)
	if err := recordStore.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}

	// Connect to report archive (optional)
	var reports *archive.Reports
	if cfg.Dedupe.ArchiveReports {
		client, err := archive.NewClient(cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to connect to archive: %w", err)
		}
		reports = archive.NewReports(client, cfg.Archive)
	}

	svc, err := dedupe.NewService(cfg.Dedupe, recordStore, reports, l)
	if err != nil {
		return fmt.Errorf("invalid dedupe configuration: %w", err)
	}

	// Step 1: Plan (always runs, applies nothing)
	plan, err := svc.Preview(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan deduplication: %w", err)
	}

	printDedupePlan(l, plan)

	if dryRunDedupe {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if len(plan.Mutations) == 0 && !(removeDuplicates && plan.RemovalCandidates > 0) {
		l.Info("Store is already deduplicated. No changes required.")
		return nil
	}

	// Step 2: Confirm removals
	if removeDuplicates && plan.RemovalCandidates > 0 {
		if !confirmRemoval(plan.RemovalCandidates) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	// Step 3: Apply
	l.Info("Applying mutations...")
	report, err := svc.Run(ctx, dedupe.RunOptions{Remove: removeDuplicates})
	if err != nil {
		return fmt.Errorf("failed to run deduplication: %w", err)
	}

	l.Info("Deduplication finished",
		zap.Bool("success", report.Success),
		zap.String("message", report.Message),
		zap.Int("original_records", report.OriginalRecords),
		zap.Int("final_records", report.FinalRecords),
		zap.Int("records_created", report.RecordsCreated),
		zap.Int("records_updated", report.RecordsUpdated),
		zap.Int("records_removed", report.RecordsRemoved),
		zap.Int("records_failed", report.RecordsFailed),
	)
	if report.ArchiveKey != "" {
		l.Info("Run report archived", zap.String("key", report.ArchiveKey))
	}

	if !report.Success {
		return fmt.Errorf("deduplication run did not complete: %s", report.Message)
	}
	return nil
}

// printDedupePlan prints a formatted plan report using logger.
func printDedupePlan(l *zap.Logger, plan *reconcile.Plan) {
	l.Info("Deduplication plan",
		zap.Int("original_records", plan.OriginalRecords),
		zap.Int("final_records", plan.FinalRecords),
		zap.Int("creates", plan.Creates),
		zap.Int("updates", plan.Updates),
		zap.Int("removal_candidates", plan.RemovalCandidates),
	)

	// Show sample of mutations (max 5 for logger)
	maxShow := 5
	if len(plan.Mutations) < maxShow {
		maxShow = len(plan.Mutations)
	}
	for i := 0; i < maxShow; i++ {
		m := plan.Mutations[i]
		l.Info("Sample mutation",
			zap.String("op", string(m.Op)),
			zap.String("record_id", m.RecordID),
			zap.String("reason", m.Reason),
		)
	}
	if len(plan.Mutations) > maxShow {
		l.Info("Additional mutations not shown", zap.Int("count", len(plan.Mutations)-maxShow))
	}
}

// confirmRemoval prompts the user for confirmation or uses --yes flag.
func confirmRemoval(count int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  About to remove %d absorbed duplicate records. Type 'yes' to confirm: ", count)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
