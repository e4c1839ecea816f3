package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyDepartment string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent retrieval requests of a department",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyDepartment, "department", "d", "", "department to inspect")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	_ = historyCmd.MarkFlagRequired("department")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	reader, closeFn, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := reader.RecentInteractions(ctx, historyDepartment, historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No interactions recorded.")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%s\t%-8s\t%6.1fms\tchunks=%v\t%q\n", e.RequestID, e.Status, e.DurationMS, e.ChunkIDs, e.Query)
	}
	return nil
}
