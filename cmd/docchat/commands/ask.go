// ABOUTME: CLI command to ask a question against indexed documents
// ABOUTME: Retrieves relevant chunks and prints a grounded answer
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/rag"
	"github.com/harper/docchat/internal/util"
	"github.com/joho/godotenv"
)

var (
	askTopK        int
	askBudget      int
	askShowSources bool
	askRetries     int
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about indexed documents",
		Long: `Ask a question and get an answer grounded in indexed documents.

The question is embedded, the most similar chunks are retrieved from
the vector store, and an answer is generated from them. If generation
fails, the raw retrieved passages can be returned instead.

Examples:
  docchat ask "What are the project deadlines?"
  docchat ask --top-k 10 "Who is responsible for deployment?"
  docchat ask --show-sources "What did the design review conclude?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Number of chunks to retrieve (default from config)")
	cmd.Flags().IntVar(&askBudget, "budget", 0, "Context budget in characters (default from config)")
	cmd.Flags().BoolVar(&askShowSources, "show-sources", false, "Print source entry IDs with the answer")
	cmd.Flags().IntVar(&askRetries, "retries", 1, "Attempts per question before giving up")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(askRetries, "retries"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if askTopK > 0 {
		cfg.TopK = askTopK
	}
	if askBudget > 0 {
		cfg.ContextBudget = askBudget
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	question := args[0]

	_, retriever, err := buildPipelines(cfg)
	if err != nil {
		return err
	}

	// The pipeline never retries internally, so retry policy lives here.
	// Generation failures are not retried: the retrieval work succeeded
	// and the degraded answer already carries it.
	var result *rag.AnswerResult
	var genFailure error
	err = util.Retry(cmd.Context(), askRetries, time.Second, func(ctx context.Context) error {
		var askErr error
		result, askErr = retriever.Answer(ctx, question)
		var genErr *rag.GenerationError
		if errors.As(askErr, &genErr) {
			genFailure = askErr
			return nil
		}
		genFailure = nil
		return askErr
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}
	if genFailure != nil {
		return fmt.Errorf("answering question: %w", genFailure)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if result.Degraded && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "(generation unavailable, showing retrieved passages)")
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)

	if askShowSources && len(result.Sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, src := range result.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", src)
		}
	}

	return nil
}
