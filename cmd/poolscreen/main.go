package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"poolscreen/adapters/excel"
	"poolscreen/adapters/rng"
	"poolscreen/app"
	"poolscreen/domain/pooling"
	"poolscreen/internal"
	"poolscreen/internal/analysis"
	"poolscreen/internal/config"
	apperrors "poolscreen/internal/errors"
	"poolscreen/internal/testkit"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "poolscreen",
		Short: "Monte Carlo assay-count estimation for pooled testing strategies",
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSimulateCmd() *cobra.Command {
	var (
		cohortFile string
		method     string
		poolSize   int
		permNum    int
		threshold  float64
		seed       int64
		workers    int
		allMethods bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo pooled-testing study and print assay summaries",
		Long: `Run a Monte Carlo pooled-testing study.

The cohort comes from --cohort (xlsx or csv with "value" and "score"
columns) or, when omitted, from the synthetic generator configured via
COHORT_SIZE / COHORT_PREVALENCE.

Example: poolscreen simulate --cohort cohort.csv --method mmpa --pool-size 5 --perm-num 500 --seed 12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg, cohortFile, method, poolSize, permNum, threshold, seed, workers)

			logger := internal.NewDefaultLogger()
			cohort, err := loadCohort(cfg, logger)
			if err != nil {
				return err
			}

			methods := []string{cfg.Simulation.Method}
			if allMethods {
				methods = []string{
					string(pooling.MethodMiniPool),
					string(pooling.MethodMPA),
					string(pooling.MethodMMPA),
				}
			}

			return runStudy(cmd.Context(), cfg, cohort, methods, logger)
		},
	}

	cmd.Flags().StringVar(&cohortFile, "cohort", "", "Cohort file (.xlsx or .csv)")
	cmd.Flags().StringVar(&method, "method", "", "Pooling method: minipool, mpa or mmpa")
	cmd.Flags().IntVar(&poolSize, "pool-size", 0, "Subjects per pool")
	cmd.Flags().IntVar(&permNum, "perm-num", 0, "Number of Monte Carlo permutations")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Positivity threshold (0 uses the default cutoff)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for deterministic runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (1 = sequential)")
	cmd.Flags().BoolVar(&allMethods, "all", false, "Compare all three methods")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		out        string
		size       int
		prevalence float64
		noise      float64
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic cohort to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			rnd := rand.New(rand.NewSource(seed))
			cohort := testkit.GenerateCohort(rnd, testkit.CohortSpec{
				Size:       size,
				Prevalence: prevalence,
				ScoreNoise: noise,
			})
			return writeCohortCSV(out, cohort)
		},
	}

	cmd.Flags().StringVar(&out, "out", "cohort.csv", "Output CSV path")
	cmd.Flags().IntVar(&size, "size", 300, "Cohort size")
	cmd.Flags().Float64Var(&prevalence, "prevalence", 0.1, "Fraction of positive subjects")
	cmd.Flags().Float64Var(&noise, "noise", 0.5, "Risk score noise")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")

	return cmd
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, cohortFile, method string, poolSize, permNum int, threshold float64, seed int64, workers int) {
	if cmd.Flags().Changed("cohort") {
		cfg.Cohort.File = cohortFile
	}
	if cmd.Flags().Changed("method") {
		cfg.Simulation.Method = method
	}
	if cmd.Flags().Changed("pool-size") {
		cfg.Simulation.PoolSize = poolSize
	}
	if cmd.Flags().Changed("perm-num") {
		cfg.Simulation.PermNum = permNum
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Simulation.Threshold = threshold
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Simulation.Workers = workers
	}
}

func loadCohort(cfg *config.Config, logger *internal.Logger) (pooling.Cohort, error) {
	if cfg.Cohort.File != "" {
		logger.Info("Reading cohort from %s", cfg.Cohort.File)
		reader := excel.NewCohortReader(cfg.Cohort.File)
		cohort, err := reader.Read(cfg.Cohort.File)
		if err != nil {
			return pooling.Cohort{}, apperrors.IngestionError(cfg.Cohort.File, err)
		}
		return cohort, nil
	}

	logger.Info("Generating synthetic cohort: size=%d prevalence=%.2f", cfg.Cohort.Size, cfg.Cohort.Prevalence)
	rnd := rand.New(rand.NewSource(cfg.Simulation.Seed))
	return testkit.GenerateCohort(rnd, testkit.CohortSpec{
		Size:       cfg.Cohort.Size,
		Prevalence: cfg.Cohort.Prevalence,
		Threshold:  cfg.Simulation.Threshold,
		ScoreNoise: 0.5,
	}), nil
}

func runStudy(ctx context.Context, cfg *config.Config, cohort pooling.Cohort, methods []string, logger *internal.Logger) error {
	service := app.NewSimulationService(rng.New())

	for _, tag := range methods {
		result, err := service.Run(ctx, app.SimulationRequest{
			Values:    cohort.Values(),
			Scores:    cohort.Scores(),
			PoolSize:  cfg.Simulation.PoolSize,
			PermNum:   cfg.Simulation.PermNum,
			Method:    pooling.Method(tag),
			Threshold: cfg.Simulation.Threshold,
			Seed:      cfg.Simulation.Seed,
			Workers:   cfg.Simulation.Workers,
		})
		if err != nil {
			return err
		}

		summary, err := analysis.Summarize(result.Matrix, cohort.Len())
		if err != nil {
			return err
		}

		logger.Debug("run %s finished in %dms", result.RunID, result.RuntimeMs)
		fmt.Printf("%-9s %s\n", result.Method, summary)
	}
	return nil
}

func writeCohortCSV(path string, cohort pooling.Cohort) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"value", "score"}); err != nil {
		return err
	}
	values, scores := cohort.Values(), cohort.Scores()
	for i := range values {
		record := []string{
			strconv.FormatFloat(values[i], 'f', -1, 64),
			strconv.FormatFloat(scores[i], 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
