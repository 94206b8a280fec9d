// ABOUTME: CLI command to ingest a document into the vector store
// ABOUTME: Extracts text from txt, md, or pdf files and indexes it
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/extract"
	"github.com/harper/docchat/internal/rag"
	"github.com/harper/docchat/internal/util"
	"github.com/joho/godotenv"
)

var (
	ingestMaxChunk    int
	ingestConcurrency int
	ingestRetries     int
	ingestSourceID    string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Index documents for retrieval",
		Long: `Index one or more documents so their content can be retrieved by ask.

Supports plain text (.txt), markdown (.md), and PDF (.pdf) files.
Each document is split into sentence chunks, each chunk is embedded,
and the whole batch is committed to the vector store at once. If any
chunk fails to embed, that document is not stored.

Examples:
  docchat ingest notes.txt
  docchat ingest --max-chunk 300 paper.pdf
  docchat ingest --source-id handbook handbook.md
  docchat ingest chapter1.md chapter2.md chapter3.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().IntVar(&ingestMaxChunk, "max-chunk", 0, "Maximum chunk length in characters (default from config)")
	cmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "Parallel embedding requests (default from config)")
	cmd.Flags().IntVar(&ingestRetries, "retries", 1, "Attempts per ingestion before giving up")
	cmd.Flags().StringVar(&ingestSourceID, "source-id", "", "Identifier for the document (default: file name)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(ingestRetries, "retries"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ingestMaxChunk > 0 {
		cfg.MaxChunkLength = ingestMaxChunk
	}
	if ingestConcurrency > 0 {
		cfg.Concurrency = ingestConcurrency
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if ingestSourceID != "" && len(args) > 1 {
		return fmt.Errorf("--source-id cannot be used with multiple files")
	}

	ingestor, _, err := buildPipelines(cfg)
	if err != nil {
		return err
	}

	var results []*rag.IngestResult
	for _, path := range args {
		text, err := extract.Text(path)
		if err != nil {
			return fmt.Errorf("extracting text from %s: %w", path, err)
		}

		sourceID := ingestSourceID
		if sourceID == "" {
			sourceID = filepath.Base(path)
		}

		// The pipeline never retries internally, so retry policy lives here.
		var result *rag.IngestResult
		err = util.Retry(cmd.Context(), ingestRetries, time.Second, func(ctx context.Context) error {
			var ingestErr error
			result, ingestErr = ingestor.Ingest(ctx, sourceID, text)
			return ingestErr
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		results = append(results, result)

		if outputFormat != "json" && !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s as %q (%d chunks)\n", path, result.SourceID, result.ChunkCount)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	}

	return nil
}
