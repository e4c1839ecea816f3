package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadDepartment string

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload documents into a department index",
	Long: `Stores each file, records it as uploaded and publishes an ingestion
event. Every running retriever indexes the document on receipt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDepartment, "department", "d", "", "target department")
	_ = uploadCmd.MarkFlagRequired("department")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ingestor, closeFn, err := openIngestor(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		doc, err := ingestor.Upload(ctx, uploadDepartment, filepath.Base(path), detectMimeType(path), f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		cmd.Printf("%s\t%s\t%s\n", doc.ID, doc.Status, doc.Filename)
	}
	return nil
}

func detectMimeType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
