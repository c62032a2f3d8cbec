package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korpus-dev/korpus/internal/connectors/wiki"
)

var (
	crawlSpaces []string
	crawlDryRun bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the wiki and ingest its pages",
	Long: `Crawls the configured wiki, strips each page to plain text, chunks
and embeds it, and stores the result in the local vector store.

Pages whose content is unchanged since the last crawl are skipped.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringSliceVar(&crawlSpaces, "space", nil, "space key to crawl (repeatable, default: configured spaces)")
	crawlCmd.Flags().BoolVar(&crawlDryRun, "dry-run", false, "list crawled pages without ingesting")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	spaceKeys := cfg.Wiki.SpaceKeys
	if len(crawlSpaces) > 0 {
		spaceKeys = crawlSpaces
	}

	source, err := wiki.New(wiki.Config{
		BaseURL:   cfg.Wiki.BaseURL,
		Token:     cfg.Wiki.Token,
		SpaceKeys: spaceKeys,
		MaxPages:  cfg.Wiki.MaxPages,
		RateLimit: wiki.RateLimitConfig{
			RequestsPerSecond: cfg.Wiki.RatePerSecond,
			BurstSize:         cfg.Wiki.Burst,
		},
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := source.Validate(ctx); err != nil {
		return err
	}

	docs, err := source.Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	cmd.Printf("Crawled %d pages\n", len(docs))

	if crawlDryRun {
		for i := range docs {
			cmd.Printf("  %s  %s (%s)\n", docs[i].ID, docs[i].Title, docs[i].SpaceKey)
		}
		return nil
	}

	n, err := ingestService.Ingest(ctx, docs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %d documents (%d unchanged)\n", n, len(docs)-n)
	return nil
}
