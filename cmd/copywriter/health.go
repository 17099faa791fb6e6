package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		h, err := c.Health(cmd.Context())
		if h == nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status:  %s\n", h.Status)
		fmt.Fprintf(out, "version: %s\n", h.Version)
		fmt.Fprintf(out, "ai:      %s\n", h.AIService)
		fmt.Fprintf(out, "store:   %s\n", h.Store)

		keys := make([]string, 0, len(h.EnvCheck))
		for k := range h.EnvCheck {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %-14s %t\n", k, h.EnvCheck[k])
		}
		return err
	},
}
