package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KirilDora/movie-fullstack-app/pkg/client"
)

const (
	cfgKeyServer   = "server"
	cfgKeyUsername = "username"

	defaultServer = "http://localhost:8080"
	envPrefix     = "MOVIESCTL"
	configName    = ".moviesctl"
)

var errNotLoggedIn = errors.New("no username configured; run 'moviesctl login <username>' or pass --username")

// app carries what every command needs. One cache is shared by all clients
// the process creates.
type app struct {
	in  io.Reader
	out io.Writer

	v          *viper.Viper
	configFile string
	jsonOutput bool

	cache *client.Cache
}

func newApp(in io.Reader, out io.Writer) *app {
	v := viper.New()
	v.SetDefault(cfgKeyServer, defaultServer)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{in: in, out: out, v: v, cache: client.NewCache()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "moviesctl",
		Short: "Manage your personal movie catalog",
		Long: `moviesctl talks to the movie catalog API.

Log in once with a username; it is remembered in ~/.moviesctl.yaml.
Settings resolve from flags, then MOVIESCTL_* environment variables,
then the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ~/.moviesctl.yaml)")
	flags.String(cfgKeyServer, defaultServer, "API base URL")
	flags.String(cfgKeyUsername, "", "act as this user instead of the logged in one")
	flags.BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	_ = a.v.BindPFlag(cfgKeyServer, flags.Lookup(cfgKeyServer))
	_ = a.v.BindPFlag(cfgKeyUsername, flags.Lookup(cfgKeyUsername))

	root.AddCommand(
		newLoginCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newFavoriteCmd(a),
		newSearchCmd(a),
	)
	return root
}

// loadConfig reads the config file. A missing file is not an error.
func (a *app) loadConfig() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(home)
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// saveUsername persists username next to the server in the config file.
func (a *app) saveUsername(username string) error {
	path := a.configFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, configName+".yaml")
	}

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	file.Set(cfgKeyServer, a.v.GetString(cfgKeyServer))
	file.Set(cfgKeyUsername, username)

	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	a.v.Set(cfgKeyUsername, username)
	return nil
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString(cfgKeyServer), a.cache)
}

func (a *app) username() (string, error) {
	name := strings.TrimSpace(a.v.GetString(cfgKeyUsername))
	if name == "" {
		return "", errNotLoggedIn
	}
	return name, nil
}
