package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listPage  int
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch the directory once and print a page of contacts",
	Long: `Fetch the directory from the upstream and print one page of it.

Examples:
  contactsd list
  contactsd list --page 2 --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		dir := newDirectory(conf, logger, nil)
		page, err := dir.Paginate(cmd.Context(), listPage, listLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
		for _, c := range page.Contacts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d\n", page.CurrentPage, page.TotalPages)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page to print")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", cfg.DefaultLimit, "contacts per page")
	rootCmd.AddCommand(listCmd)
}
