package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rexlibris/rexlibris/internal/primo"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the active library configuration",
		Long: "Runs probe searches against the active (or -l selected) library to\n" +
			"confirm the configuration returns results.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			lib, err := activeLibrary(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Testing %s\n", lib.Name)
			fmt.Printf("  Base URL   : %s\n", lib.BaseURL)
			fmt.Printf("  vid        : %s\n", lib.VID)
			fmt.Printf("  tab        : %s\n", lib.Tab)
			fmt.Printf("  scope      : %s\n", lib.Scope)
			fmt.Printf("  institution: %s\n", lib.Institution)

			msg, err := primo.Verify(cmd.Context(), primo.NewClient(), lib)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			fmt.Println("OK:", msg)
			return nil
		},
	}
}
