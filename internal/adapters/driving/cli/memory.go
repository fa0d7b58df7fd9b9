package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

var (
	memoryPruneUser     string
	memoryPruneMaxTurns int
	memoryPruneMaxAge   time.Duration
	memoryClearUser     string
	memoryClearAll      bool
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and maintain chat memory",
	RunE:  runMemoryStats,
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chat memory statistics",
	RunE:  runMemoryStats,
}

var memoryPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Evict chat turns by age or count",
	Long: `Evicts stored chat turns. At least one of --max-turns or --max-age must
be given; --user limits pruning to a single user. Pruned turns are gone
for good and never reappear in retrieval.`,
	RunE: runMemoryPrune,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all chat turns for a user",
	RunE:  runMemoryClear,
}

func init() {
	memoryPruneCmd.Flags().StringVarP(&memoryPruneUser, "user", "u", "", "limit pruning to one user")
	memoryPruneCmd.Flags().IntVar(&memoryPruneMaxTurns, "max-turns", 0, "keep only the newest N turns per user")
	memoryPruneCmd.Flags().DurationVar(&memoryPruneMaxAge, "max-age", 0, "evict turns older than this (e.g. 720h)")
	memoryClearCmd.Flags().StringVarP(&memoryClearUser, "user", "u", "", "user whose turns to remove")
	memoryClearCmd.Flags().BoolVar(&memoryClearAll, "all", false, "remove every user's turns")
	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryPruneCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryStats(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	stats, err := memoryService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("memory stats failed: %w", err)
	}

	cmd.Printf("Chat memory: %d turns across %d users\n", stats.TotalTurns, stats.Users)
	if len(stats.TurnsByUser) == 0 {
		return nil
	}

	users := make([]string, 0, len(stats.TurnsByUser))
	for user := range stats.TurnsByUser {
		users = append(users, user)
	}
	sort.Strings(users)
	for _, user := range users {
		cmd.Printf("  %-20s %d\n", user, stats.TurnsByUser[user])
	}
	return nil
}

func runMemoryPrune(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	policy := domain.PrunePolicy{
		UserID:   memoryPruneUser,
		MaxTurns: memoryPruneMaxTurns,
		MaxAge:   memoryPruneMaxAge,
	}

	removed, err := memoryService.Prune(context.Background(), policy)
	if err != nil {
		return fmt.Errorf("memory prune failed: %w", err)
	}

	cmd.Printf("Pruned %d turns.\n", removed)
	return nil
}

func runMemoryClear(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	if memoryClearUser == "" && !memoryClearAll {
		return errors.New("specify --user or --all")
	}
	if memoryClearUser != "" && memoryClearAll {
		return errors.New("--user and --all are mutually exclusive")
	}

	removed, err := memoryService.Clear(context.Background(), memoryClearUser)
	if err != nil {
		return fmt.Errorf("memory clear failed: %w", err)
	}

	cmd.Printf("Removed %d turns.\n", removed)
	return nil
}
