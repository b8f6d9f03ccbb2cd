// Package commands implements the modalform CLI.
package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-modalform/internal/logging"
	"github.com/goliatone/go-modalform/pkg/host/terminal"
	"github.com/goliatone/go-modalform/pkg/loader"
)

// AppName names the config directory and the environment prefix.
const AppName = "modalform"

const version = "0.1.0"

// Configuration keys.
const (
	keyForms     = "forms"
	keyLogLevel  = "log.level"
	keyLogFormat = "log.format"
	keyAddr      = "serve.addr"
	keyTimeout   = "remote.timeout"
)

// app carries state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
	// driver overrides the survey prompts of the prompt command.
	driver terminal.PromptDriver
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{v: newViper(), logger: logging.NewDiscard()})
}

func newRootCommand(a *app) *cobra.Command {

	root := &cobra.Command{
		Use:   AppName,
		Short: "Render, prompt and serve modal data-entry forms",
		Long: `modalform loads form declarations (YAML, JSON or TOML) and renders
them as modal dialogs, fills them in from the terminal, or serves them over
HTTP together with a validating submission endpoint.

Configuration is read from ./config.yaml or $XDG_CONFIG_HOME/modalform/config.yaml
and from MODALFORM_* environment variables (MODALFORM_FORMS, MODALFORM_LOG_LEVEL).`,
		Example: `  modalform render contact --forms ./forms
  modalform prompt contact
  modalform serve --addr :8080
  modalform import openapi.yaml --operation createPet`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(AppName + " version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./config.yaml or $XDG_CONFIG_HOME/modalform/config.yaml)")
	flags.String("forms", "forms", "form document or directory of documents")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text, json")
	_ = a.v.BindPFlag(keyForms, flags.Lookup("forms"))
	_ = a.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(keyLogFormat, flags.Lookup("log-format"))

	root.AddCommand(
		newRenderCommand(a),
		newPromptCommand(a),
		newServeCommand(a),
		newImportCommand(a),
		newSchemaCommand(a),
	)
	return root
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyForms, "forms")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyAddr, ":8080")
	v.SetDefault(keyTimeout, "30s")
	return v
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.readConfig(cmd); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return errors.Wrap(err, "configure logging")
	}
	format, err := logging.ParseFormat(a.v.GetString(keyLogFormat))
	if err != nil {
		return errors.Wrap(err, "configure logging")
	}
	a.logger = logging.New(logging.Config{Level: level, Format: format, Output: cmd.ErrOrStderr()})
	return nil
}

func (a *app) readConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		a.v.SetConfigFile(path)
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && path == "" {
			return nil
		}
		return errors.Wrap(err, "read config")
	}
	return nil
}

// store loads the configured form documents.
func (a *app) store() (*loader.Store, error) {
	location := a.v.GetString(keyForms)
	store, err := loader.LoadPath(location)
	if err != nil {
		return nil, errors.Wrapf(err, "load forms from %s", location)
	}
	if store.Empty() {
		return nil, errors.Newf("no forms found in %s", location)
	}
	return store, nil
}
