package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/department-assistant/internal/config"
)

var (
	cfg            config.Config
	commandTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Operate the department retrieval service",
	Long: `ragctl uploads documents into a department index and queries
running retriever replicas over NATS.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", 30*time.Second, "overall deadline of the command")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, commandTimeout)
}
