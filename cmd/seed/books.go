package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"libraryhub/internal/service"
)

var booksFile string

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Shelve books from a JSON file",
	Long: `Reads a JSON array of {"title", "author", "location"} objects and adds each
complete entry as an available book. Use --file - to read standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if booksFile != "-" {
			f, err := os.Open(booksFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		books, err := decodeBooks(r)
		if err != nil {
			return err
		}

		app, err := openEnv()
		if err != nil {
			return err
		}
		defer app.Close()

		catalog := service.NewCatalogService(app.store, app.cache, app.cfg.CatalogCacheTTL)
		n, err := catalog.ImportBooks(cmd.Context(), books)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d books\n", n, len(books))
		return nil
	},
}

func init() {
	booksCmd.Flags().StringVarP(&booksFile, "file", "f", "", "JSON file with books, or - for stdin")
	_ = booksCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(booksCmd)
}

func decodeBooks(r io.Reader) ([]service.BookInput, error) {
	var books []service.BookInput
	if err := json.NewDecoder(r).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}
