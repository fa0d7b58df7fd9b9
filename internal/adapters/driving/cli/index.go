package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
)

var indexBuildFile string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and inspect corpus indexes",
	Long: `Manage the per-corpus vector indexes the chat pipeline retrieves from.
Builds embed every document and replace the corpus artifact atomically,
so concurrent queries keep serving the previous index until the swap.`,
	RunE: runIndexStatus,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [corpus]",
	Short: "Build a corpus index from a documents file",
	Long: `Embeds documents from a JSON file and replaces the named corpus index.

The file holds an array of documents:
  [{"text": "...", "metadata": {"title": "..."}}, ...]`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexBuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus index status",
	RunE:  runIndexStatus,
}

func init() {
	indexBuildCmd.Flags().StringVarP(&indexBuildFile, "file", "f", "", "JSON documents file (required)")
	_ = indexBuildCmd.MarkFlagRequired("file")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	service, err := requireIndex()
	if err != nil {
		return err
	}
	corpus := args[0]

	docs, err := readCorpusDocuments(indexBuildFile)
	if err != nil {
		return err
	}

	cmd.Printf("Building %s index from %d documents...\n", corpus, len(docs))

	status, err := service.Build(context.Background(), corpus, docs)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Built %s: %d chunks (%s)\n", status.Corpus, status.Chunks, status.Fingerprint)
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	service, err := requireIndex()
	if err != nil {
		return err
	}

	statuses, err := service.Status(context.Background())
	if err != nil {
		return fmt.Errorf("index status failed: %w", err)
	}

	if len(statuses) == 0 {
		cmd.Println("No corpus indexes registered.")
		return nil
	}

	cmd.Println("Corpus indexes:")
	for _, s := range statuses {
		state := "available"
		if !s.Available {
			state = "unavailable"
		}
		cmd.Printf("  %-10s %6d chunks  %-12s %s\n", s.Corpus, s.Chunks, state, s.Fingerprint)
	}
	return nil
}

// readCorpusDocuments parses the build input file.
func readCorpusDocuments(path string) ([]driving.CorpusDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents file: %w", err)
	}

	var raw []struct {
		Text     string            `json:"text"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing documents file: %v", domain.ErrInvalidInput, err)
	}

	docs := make([]driving.CorpusDocument, 0, len(raw))
	for _, d := range raw {
		docs = append(docs, driving.CorpusDocument{Text: d.Text, Metadata: d.Metadata})
	}
	return docs, nil
}
