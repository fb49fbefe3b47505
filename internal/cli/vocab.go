package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/vocabdrill/internal/excel"
	"github.com/example/vocabdrill/pkg/models"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the vocabulary",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	listCmd.Flags().StringP("category", "c", "", "Only words of this category")
	listCmd.Flags().Int("difficulty", 0, "Only words of this difficulty")
	listCmd.Flags().Bool("categories", false, "List the categories instead of words")

	lookupCmd := &cobra.Command{
		Use:   "lookup <term>",
		Short: "Find words by term or translation",
		Args:  cobra.ExactArgs(1),
		RunE:  runLookup,
	}

	addCmd := &cobra.Command{
		Use:   "add <term> <translation>",
		Short: "Add a word to the vocabulary file",
		Args:  cobra.ExactArgs(2),
		RunE:  runAdd,
	}
	addCmd.Flags().StringP("category", "c", models.DefaultCategory, "Category")
	addCmd.Flags().Int("difficulty", models.DefaultDifficulty, "Difficulty (1-5)")

	RootCmd.AddCommand(listCmd, lookupCmd, addCmd)
}

func loadVocabulary(cmd *cobra.Command) ([]models.VocabularyItem, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return excel.LoadVocabulary(cfg.VocabularyFile, cfg.SheetName)
}

func runList(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetInt("difficulty")

	onlyCategories, _ := cmd.Flags().GetBool("categories")

	vocab, err := loadVocabulary(cmd)
	if err != nil {
		return err
	}
	if onlyCategories {
		categories := excel.Categories(vocab)
		if wantJSON() {
			return printJSON(cmd.OutOrStdout(), categories)
		}
		for _, c := range categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	}
	return printItems(cmd.OutOrStdout(), excel.Filter(vocab, category, difficulty))
}

func runLookup(cmd *cobra.Command, args []string) error {
	vocab, err := loadVocabulary(cmd)
	if err != nil {
		return err
	}

	found := excel.Lookup(vocab, args[0])
	if len(found) == 0 && !wantJSON() {
		fmt.Fprintf(cmd.OutOrStdout(), "'%s' not found\n", args[0])
		return nil
	}
	return printItems(cmd.OutOrStdout(), found)
}

func runAdd(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetInt("difficulty")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	importConfig := excel.DefaultImportConfig(cfg.VocabularyFile)
	importConfig.SheetName = cfg.SheetName
	item := models.VocabularyItem{ID: args[0], Translation: args[1], Category: category, Difficulty: difficulty}
	if err := excel.AppendWord(importConfig, item); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added: %s → %s [%s, difficulty %d]\n", args[0], args[1], category, difficulty)
	return nil
}

func printItems(out io.Writer, items []models.VocabularyItem) error {
	if wantJSON() {
		if items == nil {
			items = []models.VocabularyItem{}
		}
		return printJSON(out, items)
	}
	for _, item := range items {
		fmt.Fprintf(out, "%-20s → %-20s [%s, %d]\n", item.ID, item.Translation, item.Category, item.Difficulty)
	}
	fmt.Fprintf(out, "\nTotal: %d words\n", len(items))
	return nil
}
