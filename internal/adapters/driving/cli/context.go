package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contextMaxLength int
	contextJSON      bool
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Assemble grounded context for a query",
	Long: `Retrieves the most relevant chunks for the query, applies the
similarity threshold, and prints the assembled context with its sources.

This is the same assembly the MCP get_context tool performs.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVar(&contextMaxLength, "max-length", 0, "maximum context length in bytes (0 = configured default)")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if contextService == nil {
		return errors.New("context service not configured")
	}

	resp, err := contextService.GetContext(cmd.Context(), args[0], contextMaxLength, nil)
	if err != nil {
		return fmt.Errorf("context retrieval failed: %w", err)
	}

	if contextJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if resp.Context == "" {
		cmd.Println("No context above the similarity threshold.")
		return nil
	}

	cmd.Println(resp.Context)
	cmd.Println()
	cmd.Println("Sources:")
	for i := range resp.Sources {
		cmd.Printf("  [%d] %s (%.2f) %s\n", i+1, resp.Sources[i].Title, resp.Sources[i].Similarity, resp.Sources[i].URL)
	}
	return nil
}
