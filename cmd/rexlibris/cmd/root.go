// Package cmd implements the rexlibris CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rexlibris/rexlibris/internal/config"
	"github.com/rexlibris/rexlibris/internal/primo"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "rexlibris",
		Short: "Random discovery for Primo VE library catalogues",
		Long: "rexlibris pulls random records from any Ex Libris Primo VE catalogue.\n" +
			"It keeps a warm, deduplicated pool of results refilled in the background\n" +
			"so every draw is instant.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().
		StringP("library", "l", "", "library key to use")

	cobra.CheckErr(viper.BindPFlag("library", rootCmd.PersistentFlags().Lookup("library")))

	viper.SetEnvPrefix("REXLIBRIS")
	viper.AutomaticEnv()

	rootCmd.AddCommand(randomCmd())
	rootCmd.AddCommand(librariesCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

// loadConfig reads the config file named by --config, falling back to the
// default location.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// activeLibrary resolves the library to use: -l flag first, then the saved
// active key.
func activeLibrary(cfg *config.Config) (primo.LibraryConfig, error) {
	key := viper.GetString("library")
	lib, ok := cfg.Library(key)
	if !ok {
		if key != "" {
			return primo.LibraryConfig{}, fmt.Errorf(
				"library %q not found; run 'rexlibris libraries list'", key,
			)
		}
		return primo.LibraryConfig{}, fmt.Errorf(
			"no library configured; run 'rexlibris libraries add' or use -l",
		)
	}
	if key != "" {
		// Remember an explicitly selected library for next time.
		if err := cfg.SetActive(key); err != nil {
			return primo.LibraryConfig{}, err
		}
	}
	return lib, nil
}
