package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/moamenhredeen/oas/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	logLevel   string
	logger     logging.Logger = logging.NopLogger{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oas",
	Short: "Frontend client generator based on OpenAPI Specification",
	Long: `oas generates a fetch based frontend client from an OpenAPI Specification.
The client is emitted as TypeScript or as JavaScript with a TypeScript declaration file.

You can also list how each operation will be generated, and call operations
with the same request and response handling the generated client uses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(); err != nil {
			return err
		}
		level, err := logging.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = logging.NewText(os.Stderr, level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

// readConfig loads oas.toml from the working directory, or the file given
// with --config. A missing default file is not an error.
func readConfig() error {
	viper.SetEnvPrefix("OAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("oas")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./oas.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}
