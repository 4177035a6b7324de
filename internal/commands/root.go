package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/billconv/internal/buildinfo"
	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/config"
	"github.com/cleared-dev/billconv/internal/importer"
	"github.com/cleared-dev/billconv/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:     "billconv",
		Short:   "Convert Alipay and WeChat bill exports into one ledger CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v, cfgFile)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "settings file (default: ./billconv.yaml if present)")
	pf.String("rules", "", "YAML rules file overriding the built-in rule tables")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")

	_ = v.BindPFlag("rules", pf.Lookup("rules"))
	_ = v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("logging.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(newConvertCommand(v))
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newRulesCommand(v))

	return rootCmd
}

func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("%w: settings file: %w", common.ErrConfig, err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("billconv")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BILLCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: reading settings: %w", common.ErrConfig, err)
		}
	}

	l, err := logger.New(cmd.ErrOrStderr(), v.GetString("logging.level"), v.GetString("logging.format"))
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), l))
	return nil
}

// loadRegistry returns the built-in adapters with the configured rules file applied.
func loadRegistry(v *viper.Viper) (*importer.Registry, error) {
	reg := importer.DefaultRegistry()
	path := v.GetString("rules")
	if path == "" {
		return reg, nil
	}
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
