package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrypal/internal/catalog"
	"github.com/dukerupert/pantrypal/internal/config"
	"github.com/dukerupert/pantrypal/internal/database"
	"github.com/dukerupert/pantrypal/internal/store"
)

var importItemsCmd = &cobra.Command{
	Use:   "import-items <file>",
	Short: "Import catalog items from a JSON or YAML file",
	Long: `Load catalog items into the database.

The file holds a list of items with name, category, quantity, unit, price and
expirationDate fields. Items without a category are categorized from their
name. Items without a name are skipped.

Examples:
  pantrypal import-items items.json
  pantrypal import-items items.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		cfg := config.Load()

		items, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Read %s from %s\n", color.CyanString("%d item(s)", len(items)), args[0])

		if dryRun {
			fmt.Printf("%s\n", color.YellowString("DRY RUN MODE - nothing will be written"))
			for _, it := range items {
				fmt.Printf("  %s %s\n", it.Name, color.New(color.Faint).Sprintf("(%s)", it.Category))
			}
			return nil
		}

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		cs := store.NewCatalogStore(db)
		n, err := cs.Import(items)
		if err != nil {
			fmt.Printf("%s %v\n", color.RedString("✗ import failed:"), err)
			return err
		}
		total, err := cs.Count()
		if err != nil {
			return err
		}
		fmt.Printf("%s imported %d item(s); catalog now holds %d\n", color.GreenString("✓"), n, total)
		return nil
	},
}

func init() {
	importItemsCmd.Flags().Bool("dry-run", false, "parse and list the items without writing them")
	rootCmd.AddCommand(importItemsCmd)
}
