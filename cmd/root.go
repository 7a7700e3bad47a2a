package cmd

import (
	"fmt"
	"os"

	"github.com/crateworks/typegen/internal"
	"github.com/crateworks/typegen/internal/util"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string // set in main

func mustFlagBool(cmd *cobra.Command, name string, required bool) bool {
	val, err := cmd.Flags().GetBool(name)
	if required && err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func mustFlagString(cmd *cobra.Command, name string, required bool) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if required && val == "" {
		fmt.Printf("error: required flag --%s missing\n", name)
		os.Exit(1)
	}
	return val
}

func newLogger(cmd *cobra.Command) logger.Logger {
	if mustFlagBool(cmd, "verbose", false) {
		return logger.NewConsoleLogger(logger.LevelTrace)
	}
	if mustFlagBool(cmd, "silent", false) {
		return logger.NewConsoleLogger(logger.LevelError)
	}
	return logger.NewConsoleLogger(logger.LevelInfo)
}

// loadConfig reads the optional config file. An explicit --config that does
// not exist is an error; the default typegen.toml is only used when present.
func loadConfig(cmd *cobra.Command, log logger.Logger) *internal.Config {
	filename := mustFlagString(cmd, "config", false)
	explicit := filename != ""
	if filename == "" {
		filename = "typegen.toml"
	}
	if !util.Exists(filename) {
		if explicit {
			log.Error("config file does not exist: %s", filename)
			os.Exit(1)
		}
		return &internal.Config{}
	}
	config, err := internal.LoadConfig(filename)
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	log.Debug("loaded config from %s", filename)
	return config
}

// resolveAPI returns the server url and token: flags win over environment
// variables, which win over the config file.
func resolveAPI(cmd *cobra.Command, config *internal.Config) (string, string) {
	url := mustFlagString(cmd, "url", false)
	if url == "" {
		url = viper.GetString("url")
	}
	if url == "" {
		url = config.API.URL
	}
	token := mustFlagString(cmd, "token", false)
	if token == "" {
		token = viper.GetString("token")
	}
	if token == "" {
		token = config.API.Token
	}
	return url, token
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typegen",
	Short: "Generate TypeScript types from a CMS server schema",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("url", "", "the CMS server url")
	rootCmd.PersistentFlags().String("token", "", "the CMS access token")
	rootCmd.PersistentFlags().String("config", "", "path to a typegen.toml config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "turn off all logging")

	viper.SetEnvPrefix("typegen")
	viper.AutomaticEnv()
	viper.BindEnv("url")
	viper.BindEnv("token")
}
