package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the ingested corpus",
	Long: `Performs a semantic similarity search over the ingested corpus and
prints the nearest chunks with their similarity scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	results, err := retrievalService.Search(cmd.Context(), args[0], searchLimit, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	type resultJSON struct {
		ID         string  `json:"id"`
		Title      string  `json:"title"`
		URL        string  `json:"url"`
		Content    string  `json:"content"`
		Distance   float64 `json:"distance"`
		Similarity float64 `json:"similarity"`
	}

	out := make([]resultJSON, len(results))
	for i := range results {
		out[i] = resultJSON{
			ID:         results[i].ID,
			Title:      results[i].Metadata[domain.MetaTitle],
			URL:        results[i].Metadata[domain.MetaURL],
			Content:    results[i].Content,
			Distance:   results[i].Distance,
			Similarity: results[i].Similarity(),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Metadata[domain.MetaTitle]
		if title == "" {
			title = results[i].ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Similarity())
		if url := results[i].Metadata[domain.MetaURL]; url != "" {
			cmd.Printf("      %s\n", url)
		}
		cmd.Printf("      %s\n", snippet(results[i].Content, 120))
		cmd.Println()
	}
	return nil
}

// snippet returns the first n bytes of text on a single line.
func snippet(text string, n int) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			text = text[:i]
			break
		}
	}
	if len(text) > n {
		text = text[:n] + "..."
	}
	return text
}
