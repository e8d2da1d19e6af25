package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/rexlibris/rexlibris/internal/config"
	"github.com/rexlibris/rexlibris/internal/engine"
	"github.com/rexlibris/rexlibris/internal/pool"
	"github.com/rexlibris/rexlibris/internal/primo"
	"github.com/rexlibris/rexlibris/internal/words"
	"github.com/rexlibris/rexlibris/pkg/logger"
)

func randomCmd() *cobra.Command {
	var (
		count        int
		materialType string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw random records from the active library",
		Long: "Draws random catalogue records. With -n it prints that many records\n" +
			"and exits; without flags it starts an interactive discovery session.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			lib, err := activeLibrary(cfg)
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, lib)
			if err != nil {
				return err
			}
			defer eng.Stop()

			ctx := cmd.Context()

			if materialType != "" {
				if err := eng.SetMaterialType(materialType); err != nil {
					return err
				}
			}

			if count > 0 {
				return drawOnce(ctx, eng, count, verbose)
			}
			return interactiveLoop(ctx, eng, cfg, verbose)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "draw N records and exit (0 = interactive)")
	cmd.Flags().StringVarP(&materialType, "type", "t", "", "material type filter (e.g. book)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show publisher, subjects, and description")

	return cmd
}

// buildEngine wires the client, word supply, and pool for one session.
func buildEngine(cfg *config.Config, lib primo.LibraryConfig) (*engine.Engine, error) {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	client := primo.NewClient(
		primo.WithRateLimiter(rate.NewLimiter(
			rate.Limit(cfg.Pool.RatePerSecond), cfg.Pool.RateBurst,
		)),
	)

	supply := words.NewSupply(
		words.NewHTTPSource(words.WithSourceURL(cfg.Words.SourceURL)),
		words.WithBatchSize(cfg.Words.BatchSize),
		words.WithLowWater(cfg.Words.LowWater),
		words.WithLogger(log),
	)

	p := pool.New(client, supply, lib,
		pool.WithTarget(cfg.Pool.Target),
		pool.WithLowWater(cfg.Pool.LowWater),
		pool.WithWorkers(cfg.Pool.Workers),
		pool.WithLogger(log),
	)

	eng := engine.New(supply, p,
		engine.WithLogger(log),
		engine.WithRefillInterval(cfg.Pool.RefillInterval),
	)

	fmt.Fprintln(os.Stderr, "Loading word supply...")
	if err := eng.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("starting engine: %w", err)
	}
	return eng, nil
}

func drawOnce(ctx context.Context, eng *engine.Engine, n int, verbose bool) error {
	records := eng.Draw(ctx, n)
	if len(records) == 0 {
		return fmt.Errorf("no results; check the library config or try again")
	}
	for i, rec := range records {
		printRecord(rec, i+1, verbose)
	}
	return nil
}

const loopHelp = `Commands:
  r / Enter     Draw one random record
  r N           Draw N random records (max 20)
  t TYPE        Set material type filter (e.g. t book)
  t             Clear the filter
  v             Toggle verbose output
  s             Show status
  h             This help
  q             Quit`

func interactiveLoop(
	ctx context.Context,
	eng *engine.Engine,
	cfg *config.Config,
	verbose bool,
) error {
	st := eng.Status()
	fmt.Printf("\n%s - random discovery\n", st.Library)
	fmt.Println(loopHelp)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		st = eng.Status()
		tag := ""
		if st.MaterialType != "" {
			tag = ":" + st.MaterialType
		}
		fmt.Printf("\n[%s%s] (%d)> ", cfg.Active, tag, st.PoolSize)

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return scanner.Err()
		}
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch {
		case line == "" || line == "r" || line == "random":
			drawAndPrint(ctx, eng, 1, verbose)

		case strings.HasPrefix(line, "r") && isDigits(strings.TrimSpace(line[1:])):
			n, _ := strconv.Atoi(strings.TrimSpace(line[1:]))
			drawAndPrint(ctx, eng, n, verbose)

		case line == "t" || strings.HasPrefix(line, "t "):
			arg := strings.TrimSpace(strings.TrimPrefix(line, "t"))
			if arg == "none" || arg == "all" || arg == "clear" {
				arg = ""
			}
			if err := eng.SetMaterialType(arg); err != nil {
				fmt.Println(err)
				fmt.Println("Types:", strings.Join(materialTypeNames(), ", "))
				continue
			}
			if arg == "" {
				fmt.Println("Filter cleared")
			} else {
				fmt.Println("Filter →", arg)
			}

		case line == "v" || line == "verbose":
			verbose = !verbose
			fmt.Println("Verbose:", onOff(verbose))

		case line == "s" || line == "status":
			fmt.Printf("Library : %s\n", st.Library)
			fmt.Printf("Base URL: %s\n", st.BaseURL)
			fmt.Printf("Filter  : %s\n", orDefault(st.MaterialType, "(all)"))
			fmt.Printf("Cached  : %d records\n", st.PoolSize)
			fmt.Printf("Words   : %d buffered\n", st.WordsBuffered)

		case line == "h" || line == "help" || line == "?":
			fmt.Println(loopHelp)

		case line == "q" || line == "quit" || line == "exit":
			fmt.Println("Goodbye!")
			return nil

		default:
			// Bare material type names work as a shortcut.
			if _, ok := primo.MaterialTypes[line]; ok {
				if err := eng.SetMaterialType(line); err == nil {
					fmt.Println("Filter →", line)
					continue
				}
			}
			fmt.Printf("Unknown: %q (h for help)\n", line)
		}
	}
}

func drawAndPrint(ctx context.Context, eng *engine.Engine, n int, verbose bool) {
	records := eng.Draw(ctx, n)
	if len(records) == 0 {
		fmt.Println("No results - try again or change the filter.")
		return
	}
	for i, rec := range records {
		printRecord(rec, i+1, verbose)
	}
}

func printRecord(rec primo.Summary, idx int, verbose bool) {
	fmt.Printf("\n[%d] %s\n", idx, truncate(rec.Title, 120))
	fmt.Printf("    %s\n", truncate(rec.Creator, 80))
	fmt.Printf("    %s · %s\n", rec.Date, rec.Type)
	if verbose {
		if rec.Publisher != "" {
			fmt.Printf("    Publisher: %s\n", truncate(rec.Publisher, 80))
		}
		if rec.Language != "" {
			fmt.Printf("    Language: %s\n", rec.Language)
		}
		if len(rec.Subjects) > 0 {
			subjects := rec.Subjects
			if len(subjects) > 5 {
				subjects = subjects[:5]
			}
			fmt.Printf("    Subjects: %s\n", strings.Join(subjects, "; "))
		}
		if rec.Description != "" {
			fmt.Printf("    %s\n", truncate(rec.Description, 200))
		}
	}
	if rec.URL != "" {
		fmt.Printf("    %s\n", rec.URL)
	}
}

func materialTypeNames() []string {
	names := make([]string, 0, len(primo.MaterialTypes))
	for name := range primo.MaterialTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
