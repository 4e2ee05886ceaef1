package cmd

import (
	"errors"
	"fmt"

	"github.com/cheerioskun/patchninja/internal/patcher"
	"github.com/cheerioskun/patchninja/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// appFs is the filesystem every command works on
	appFs afero.Fs = afero.NewOsFs()

	// logger receives diagnostics from every command
	logger = utils.GetLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "patchninja",
	Short: "Apply ordered regex rewrite rules to a file, safely",
	Long: `patchninja rewrites a text file with an ordered list of regular-expression
rules and writes the result back atomically, only when something changed.

The built-in "installer" rule set clears ShellCheck SC2015, SC2034, SC2206 and
SC2002 findings from a shell installer. Extra rules can be listed under "rules"
in the configuration file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
		if err := initConfig(); err != nil {
			return &patcher.ConfigError{Err: err}
		}
		logger.SetVerbose(viper.GetBool("verbose"))
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.patchninja.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
// A missing default config file is fine, an unreadable explicit one is not.
func initConfig() error {
	viper.SetFs(appFs)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".patchninja")
	}

	viper.SetEnvPrefix("PATCHNINJA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	logger.Debug("using config file %s", viper.ConfigFileUsed())
	return nil
}
