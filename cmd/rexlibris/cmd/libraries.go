package cmd

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rexlibris/rexlibris/internal/primo"
)

func librariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "Manage library configurations",
	}

	cmd.AddCommand(librariesListCmd())
	cmd.AddCommand(librariesAddCmd())
	cmd.AddCommand(librariesRemoveCmd())
	cmd.AddCommand(librariesUseCmd())

	return cmd
}

func librariesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved and built-in libraries",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			libs := cfg.AllLibraries()
			keys := make([]string, 0, len(libs))
			for k := range libs {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, key := range keys {
				marker := " "
				if key == cfg.Active {
					marker = "*"
				}
				source := "built-in"
				if cfg.Saved(key) {
					source = "saved"
				}
				fmt.Printf("%s %-12s %s (%s)\n", marker, key, libs[key].Name, source)
			}
			return nil
		},
	}
}

var keySanitizer = regexp.MustCompile(`[^a-z0-9_]`)

func librariesAddCmd() *cobra.Command {
	var (
		fromURL    string
		fromAPIURL string
		lib        primo.LibraryConfig
		skipVerify bool
	)

	cmd := &cobra.Command{
		Use:   "add KEY",
		Short: "Add a library configuration",
		Long: "Adds a library under KEY. Provide either --from-url (a search URL\n" +
			"pasted from the browser), --from-api-url (a pnxs request URL from the\n" +
			"network inspector), or the individual --base-url/--vid/--tab/--scope/\n" +
			"--inst values. The configuration is verified with probe searches\n" +
			"before saving unless --skip-verify is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := keySanitizer.ReplaceAllString(strings.ToLower(args[0]), "")
			if key == "" {
				return fmt.Errorf("invalid key %q: use lowercase letters, digits, underscores", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			detected, err := resolveLibrary(fromURL, fromAPIURL, lib)
			if err != nil {
				return err
			}
			if lib.Name != "" {
				detected.Name = lib.Name
			}

			if !skipVerify {
				fmt.Println("Verifying configuration...")
				msg, err := primo.Verify(cmd.Context(), primo.NewClient(), detected)
				if err != nil {
					return fmt.Errorf("verification failed (%w); use --skip-verify to save anyway", err)
				}
				fmt.Println("OK:", msg)
			}

			if err := cfg.AddLibrary(key, detected); err != nil {
				return err
			}
			fmt.Printf("Saved %q as the active library\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromURL, "from-url", "", "detect config from a discovery search URL")
	cmd.Flags().StringVar(&fromAPIURL, "from-api-url", "", "detect config from a pnxs API URL")
	cmd.Flags().StringVar(&lib.Name, "name", "", "library display name")
	cmd.Flags().StringVar(&lib.BaseURL, "base-url", "", "Primo base URL")
	cmd.Flags().StringVar(&lib.VID, "vid", "", "Primo vid parameter")
	cmd.Flags().StringVar(&lib.Tab, "tab", "", "Primo tab parameter")
	cmd.Flags().StringVar(&lib.Scope, "scope", "", "Primo scope parameter")
	cmd.Flags().StringVar(&lib.Institution, "inst", "", "Primo institution code")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "save without probe verification")

	return cmd
}

// resolveLibrary builds a LibraryConfig from whichever input the user gave.
func resolveLibrary(
	fromURL, fromAPIURL string,
	manual primo.LibraryConfig,
) (primo.LibraryConfig, error) {
	switch {
	case fromURL != "":
		lib, err := primo.DetectFromSearchURL(fromURL)
		if err != nil {
			return primo.LibraryConfig{}, fmt.Errorf(
				"detecting from search URL: %w (try --from-api-url or manual flags)", err,
			)
		}
		return lib, nil

	case fromAPIURL != "":
		lib, err := primo.DetectFromAPIURL(fromAPIURL)
		if err != nil {
			return primo.LibraryConfig{}, fmt.Errorf(
				"detecting from API URL: %w (try manual flags)", err,
			)
		}
		return lib, nil

	default:
		if manual.BaseURL == "" || manual.VID == "" || manual.Tab == "" ||
			manual.Scope == "" || manual.Institution == "" {
			return primo.LibraryConfig{}, fmt.Errorf(
				"provide --from-url, --from-api-url, or all of --base-url, --vid, --tab, --scope, --inst",
			)
		}
		manual.BaseURL = strings.TrimRight(manual.BaseURL, "/")
		if manual.Name == "" {
			manual.Name = manual.Institution
		}
		return manual, nil
	}
}

func librariesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove KEY",
		Short: "Remove a saved library",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.RemoveLibrary(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %q\n", args[0])
			return nil
		},
	}
}

func librariesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use KEY",
		Short: "Set the active library",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.SetActive(args[0]); err != nil {
				return err
			}
			fmt.Printf("Active library: %q\n", args[0])
			return nil
		},
	}
}
