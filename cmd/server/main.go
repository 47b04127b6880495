package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"carprice/internal/config"
	"carprice/internal/model"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carprice",
		Short: "Used car resale price predictor",
		Long: `Carprice serves a small web application that estimates the resale
price of a used car from its details, using a model and label encoders
trained offline.

Running without a subcommand starts the web server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(serveCmd(), predictCmd(), catalogCmd(), versionCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return serve(ctx, cfg, logger)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carprice version %s (build: %s, commit: %s)\n", Version, BuildTime, GitCommit)
		},
	}
}

func predictCmd() *cobra.Command {
	var (
		in        model.RawInput
		inputPath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the price of one car",
		Long: `Predict runs the same pipeline as the web form for a single car.

Values come from flags, or from a JSON document with --input (use - for stdin):

  carprice predict --year 2015 --km-driven 50000 --mileage 18.5 --engine 1197 \
    --max-power 82 --seats 5 --brand Maruti --model "Swift Dzire VDI" \
    --fuel Petrol --seller-type Individual --transmission Manual --owner "First Owner"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath != "" {
				if err := readInput(cmd.InOrStdin(), inputPath, &in); err != nil {
					return err
				}
			}
			a, err := loadForCLI(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.prediction.Predict(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(model.PredictResponse{
					Price:   result.Price,
					Display: result.Display,
					Raw:     result.Raw,
				})
			}
			_, err = fmt.Fprintln(out, result.Display)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar((*string)(&in.Year), "year", "", "Manufacturing year")
	f.StringVar((*string)(&in.KmDriven), "km-driven", "", "Kilometres driven")
	f.StringVar((*string)(&in.Mileage), "mileage", "", "Mileage in kmpl")
	f.StringVar((*string)(&in.Engine), "engine", "", "Engine displacement in CC")
	f.StringVar((*string)(&in.MaxPower), "max-power", "", "Maximum power in bhp")
	f.StringVar((*string)(&in.Seats), "seats", "", "Number of seats")
	f.StringVar((*string)(&in.Brand), "brand", "", "Brand, e.g. Maruti")
	f.StringVar((*string)(&in.Model), "model", "", "Model, e.g. \"Swift Dzire VDI\"")
	f.StringVar((*string)(&in.Fuel), "fuel", "", "Fuel type")
	f.StringVar((*string)(&in.SellerType), "seller-type", "", "Seller type")
	f.StringVar((*string)(&in.Transmission), "transmission", "", "Transmission")
	f.StringVar((*string)(&in.Owner), "owner", "", "Ownership, e.g. \"First Owner\"")
	f.StringVarP(&inputPath, "input", "i", "", "Read the car as JSON from a file, - for stdin")
	f.BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func readInput(stdin io.Reader, path string, in *model.RawInput) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(in); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the reference car catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "brands",
		Short: "List every brand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadForCLI(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return printLines(cmd.OutOrStdout(), a.catalog.Brands())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "models BRAND",
		Short: "List the models of one brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadForCLI(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			brand := strings.TrimSpace(args[0])
			models := a.catalog.ModelsFor(brand)
			if len(models) == 0 {
				return fmt.Errorf("no models for brand %q", brand)
			}
			return printLines(cmd.OutOrStdout(), models)
		},
	})

	return cmd
}

// loadForCLI loads the application with logging kept off stdout
func loadForCLI(cmd *cobra.Command) (*app, error) {
	cfg, logger, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return loadApp(ctx, cfg, logger)
}

// setup loads configuration and installs the default logger
func setup(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := cfg.Logging.NewLogger(logOut)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func printBanner(logger *slog.Logger) {
	logger.Info("Car Price Predictor",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)
}
