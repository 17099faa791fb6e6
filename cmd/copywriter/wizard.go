package main

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Generate copy step by step in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		m := tui.New(cmd.Context(), tui.Config{
			NewAPI: func(token string) tui.API {
				return c.WithToken(token)
			},
			User:  sessionUser(),
			Token: c.Token(),
			OnSession: func(token string, user *model.User) {
				if err := saveSession(token, user); err != nil {
					slog.Warn("failed to store session", "error", err)
				}
			},
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		return err
	},
}
