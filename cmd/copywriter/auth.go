package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		user, err := c.SignUp(cmd.Context(), dto.SignUpRequest{
			Email:    authEmail,
			Password: password,
			Name:     authName,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "注册成功：%s (%s)\n", user.Email, user.ID)
		fmt.Fprintln(cmd.OutOrStdout(), `run "copywriter login" to sign in`)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		session, err := c.SignIn(cmd.Context(), authEmail, password)
		if err != nil {
			return err
		}
		user := &model.User{ID: session.User.ID, Email: session.User.Email, Name: session.User.Name}
		if err := saveSession(session.AccessToken, user); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已登录：%s\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearSession(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "已退出登录")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when empty)")
		_ = c.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVar(&authName, "name", "", "display name")
	_ = signupCmd.MarkFlagRequired("name")
}

func passwordOrPrompt() (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	if env := os.Getenv("COPYWRITER_PASSWORD"); env != "" {
		return env, nil
	}

	fmt.Fprint(os.Stderr, "密码: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
