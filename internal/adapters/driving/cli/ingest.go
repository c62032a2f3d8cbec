package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest local text files",
	Long: `Ingests plain-text or markdown files into the vector store.

The file path becomes the document id, so re-ingesting an unchanged file
is a no-op and re-ingesting a changed file replaces its chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var removeCmd = &cobra.Command{
	Use:   "remove [document-id]",
	Short: "Remove an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(removeCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs := make([]domain.Document, 0, len(args))
	for _, path := range args {
		doc, err := fileDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, *doc)
	}

	n, err := ingestService.Ingest(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %d documents (%d unchanged)\n", n, len(docs)-n)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

// fileDocument reads a local file into a domain document. The cleaned
// path is the stable document id; the title is the file name without
// extension.
func fileDocument(path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))

	return &domain.Document{
		ID:           filepath.Clean(path),
		Title:        title,
		Content:      string(content),
		URL:          "file://" + filepath.Clean(path),
		LastModified: info.ModTime(),
		Type:         "file",
	}, nil
}
