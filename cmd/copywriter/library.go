package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List generated copy",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}

		items, err := c.Library(cmd.Context())
		if err != nil {
			return explain(err)
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "还没有生成过文案")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tGRADE\tTITLE\tID")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Date, item.Compliance, item.Title, item.ID)
		}
		return w.Flush()
	},
}

var librarySaveCmd = &cobra.Command{
	Use:   "save <generation-id> <version>",
	Short: "Save one version of a generation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("version must be 1-3: %w", err)
		}
		c, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.Save(cmd.Context(), args[0], version); err != nil {
			return explain(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "已保存")
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(librarySaveCmd)
}
