package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		p, err := c.Profile(cmd.Context())
		if err != nil {
			return explain(err)
		}
		printProfile(cmd, p)
		return nil
	},
}

var profileNameCmd = &cobra.Command{
	Use:   "set-name <name>",
	Short: "Change your display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		p, err := c.UpdateProfile(cmd.Context(), dto.UpdateProfileRequest{Name: &args[0]})
		if err != nil {
			return explain(err)
		}
		printProfile(cmd, p)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileNameCmd)
}

func printProfile(cmd *cobra.Command, p *model.UserProfile) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s <%s>\n", p.Name, p.Email)
	fmt.Fprintf(out, "generations: %d\n", p.UsageStats.TotalGenerations)
	fmt.Fprintf(out, "feedback:    %d\n", p.UsageStats.TotalFeedback)
}
