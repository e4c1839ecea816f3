package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kirillkom/department-assistant/internal/adapters/natsrpc"
)

var (
	queryDepartment string
	queryUser       string
	queryContextN   int
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve context chunks for a question",
	Long: `Sends a retrieval request to the running retrievers and prints the
selected chunks of the department.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryDepartment, "department", "d", "", "department to search")
	queryCmd.Flags().StringVar(&queryUser, "user", "", "user name recorded in the interaction log")
	queryCmd.Flags().IntVarP(&queryContextN, "context-n", "n", 0, "number of chunks to return (0 keeps the service default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the raw reply as JSON")
	_ = queryCmd.MarkFlagRequired("department")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, closeFn, err := openRetriever(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	req := natsrpc.RetrievalRequest{
		RequestID:  uuid.NewString(),
		User:       queryUser,
		Department: queryDepartment,
		Query:      args[0],
	}
	if queryContextN > 0 {
		n := queryContextN
		req.Limits = &natsrpc.LimitsOverride{ContextN: &n}
	}

	resp, err := client.Retrieve(ctx, req)
	if err != nil {
		return fmt.Errorf("retrieve: %w", err)
	}
	if resp.ErrorCode != "" {
		return fmt.Errorf("retrieval failed (%s): %s", resp.ErrorCode, resp.Error)
	}

	if queryJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode reply: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(resp.Chunks) == 0 {
		cmd.Println("No context found.")
		return nil
	}
	for i, c := range resp.Chunks {
		cmd.Printf("[%d] chunk %d from %s\n", i+1, c.ID, c.OriginPath)
		cmd.Printf("    %s\n\n", preview(c.Text, 240))
	}
	return nil
}

func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
