package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/paper"
	"github.com/jahody/papers2/internal/storage"
)

var (
	papersYear      int
	papersAuthor    string
	papersLimit     int
	papersMostCited int
	papersCiters    string
	papersCited     string
)

func init() {
	papersCmd.Flags().IntVar(&papersYear, "year", 0, "Filter by publication year")
	papersCmd.Flags().StringVar(&papersAuthor, "author", "", "Filter by author surname (substring match)")
	papersCmd.Flags().IntVar(&papersLimit, "limit", 0, "Maximum results to return (0 = all)")
	papersCmd.Flags().IntVar(&papersMostCited, "most-cited", 0, "Show the N most-cited papers instead of listing")
	papersCmd.Flags().StringVar(&papersCiters, "citers", "", "List papers citing the given paper ID")
	papersCmd.Flags().StringVar(&papersCited, "cited", "", "List papers cited by the given paper ID")
	rootCmd.AddCommand(papersCmd)
}

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Query the paper cache",
	Long: `Query the SQLite cache built by rebuild.

Examples:
  papergraph papers
  papergraph papers --year 2017 --author Vaswani
  papergraph papers --most-cited 10
  papergraph papers --citers 1706.03762_attention_is_all_you_need`,
	RunE: runPapers,
}

func runPapers(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	db, err := storage.OpenDB(cfg.CacheDB())
	if err != nil {
		exitWithError(ExitConfigError, "opening cache (run rebuild first): %v", err)
	}
	defer db.Close()

	switch {
	case papersMostCited > 0:
		return runMostCited(db)
	case papersCiters != "":
		return runEdgeQuery(db.Citers(papersCiters))
	case papersCited != "":
		return runEdgeQuery(db.Cited(papersCited))
	}

	papers, err := db.ListPapers(storage.PaperFilter{
		Year:   papersYear,
		Author: papersAuthor,
		Limit:  papersLimit,
	})
	if err != nil {
		exitWithError(ExitError, "listing papers: %v", err)
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers match")
			return nil
		}
		for _, p := range papers {
			printPaperHuman(p)
		}
		return nil
	}
	if papers == nil {
		papers = []paper.Paper{}
	}
	return outputJSON(papers)
}

func runMostCited(db *storage.DB) error {
	counts, err := db.MostCited(papersMostCited)
	if err != nil {
		exitWithError(ExitError, "querying most cited: %v", err)
	}

	if humanOutput {
		for _, c := range counts {
			fmt.Printf("  %3dx %s\n", c.Count, c.PaperID)
		}
		return nil
	}
	if counts == nil {
		counts = []storage.CitationCount{}
	}
	return outputJSON(counts)
}

func runEdgeQuery(ids []string, err error) error {
	if err != nil {
		exitWithError(ExitError, "querying edges: %v", err)
	}

	if humanOutput {
		if len(ids) == 0 {
			fmt.Println("No matching edges")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}
	if ids == nil {
		ids = []string{}
	}
	return outputJSON(ids)
}

func printPaperHuman(p paper.Paper) {
	fmt.Printf("  %-45s %s", truncateString(p.ID, 45), truncateString(p.RawTitle, ListTitleMaxLen))
	if p.Year > 0 {
		fmt.Printf(" (%d)", p.Year)
	}
	fmt.Println()
}
