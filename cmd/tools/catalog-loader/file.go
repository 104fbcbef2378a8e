package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-qa-workers/internal/catalog"
)

var (
	catalogFile string
	outFile     string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a catalog YAML document and report its size",
	RunE:  runValidate,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the PostgreSQL catalog with a YAML document",
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the PostgreSQL catalog to a YAML document",
	RunE:  runExport,
}

func init() {
	validateCmd.Flags().StringVarP(&catalogFile, "file", "f", "configs/catalog.yaml", "Catalog YAML document")
	importCmd.Flags().StringVarP(&catalogFile, "file", "f", "configs/catalog.yaml", "Catalog YAML document")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "catalog.yaml", "Destination file")

	rootCmd.AddCommand(validateCmd, importCmd, exportCmd)
}

func readCatalog(path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return catalog.Parse(raw)
}

func runValidate(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(catalogFile)
	if err != nil {
		return err
	}
	printCounts(cmd, catalogFile, c)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(catalogFile)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	store, closeStore, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Save(ctx, c); err != nil {
		return err
	}
	log.Info("catalog imported",
		zap.String("file", catalogFile),
		zap.Int("people", c.PeopleCount()),
		zap.Int("teams", c.TeamCount()),
	)
	printCounts(cmd, "imported", c)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	store, closeStore, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if err := catalog.WriteFile(outFile, c); err != nil {
		return err
	}
	log.Info("catalog exported", zap.String("out", outFile))
	printCounts(cmd, outFile, c)
	return nil
}
