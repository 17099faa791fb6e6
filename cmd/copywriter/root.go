package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BitmanAlan/xiaohongshu/internal/client"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

const (
	keyServer = "server"
	keyToken  = "token"
	keyUserID = "user_id"
	keyEmail  = "email"
	keyName   = "name"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "copywriter",
	Short: "Xiaohongshu copywriting assistant",
	Long: `copywriter talks to a running copywriter server.

Sign in once with "copywriter login"; the token is kept in ~/.copywriter.yaml.
Every setting can also come from COPYWRITER_* environment variables.

Examples:
  copywriter signup --email a@b.com --name 小红
  copywriter login --email a@b.com
  copywriter wizard
  copywriter library`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ~/.copywriter.yaml)",
	)
	rootCmd.PersistentFlags().String(
		keyServer, "http://localhost:8080/copywriter", "server URL including the service prefix",
	)
	_ = viper.BindPFlag(keyServer, rootCmd.PersistentFlags().Lookup(keyServer))

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, wizardCmd, libraryCmd, profileCmd, healthCmd)
}

func initConfig() error {
	viper.SetEnvPrefix("COPYWRITER")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		viper.SetConfigFile(filepath.Join(home, ".copywriter.yaml"))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// saveSession persists the token so later commands are signed in.
func saveSession(token string, user *model.User) error {
	viper.Set(keyToken, token)
	if user != nil {
		viper.Set(keyUserID, user.ID)
		viper.Set(keyEmail, user.Email)
		viper.Set(keyName, user.Name)
	}
	return writeConfig()
}

func clearSession() error {
	for _, k := range []string{keyToken, keyUserID, keyEmail, keyName} {
		viper.Set(k, "")
	}
	return writeConfig()
}

func writeConfig() error {
	path := viper.ConfigFileUsed()
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

func sessionUser() *model.User {
	if viper.GetString(keyUserID) == "" {
		return nil
	}
	return &model.User{
		ID:    viper.GetString(keyUserID),
		Email: viper.GetString(keyEmail),
		Name:  viper.GetString(keyName),
	}
}

func newClient() (*client.Client, error) {
	return client.New(client.Config{
		BaseURL: viper.GetString(keyServer),
		Token:   viper.GetString(keyToken),
	})
}

// authedClient fails early when no session is stored.
func authedClient() (*client.Client, error) {
	if viper.GetString(keyToken) == "" {
		return nil, errors.New(`not signed in, run "copywriter login" first`)
	}
	return newClient()
}

// explain turns an expired session into a hint.
func explain(err error) error {
	if client.IsAuth(err) {
		return fmt.Errorf("%w (run \"copywriter login\" again)", err)
	}
	return err
}
