package main

import (
	"context"
	"discovery/internal/db"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/storage"
	"discovery/internal/reviewing"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "Maintenance commands for the reviews database",
	Long:  `reviewctl applies the reviews schema and repairs place and event rating aggregates.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the reviews schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool()
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
		return nil
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute average rating and review count from approved reviews",
	Example: `  reviewctl recompute --all
  reviewctl recompute --kind place --id 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, target, err := recomputeScope(cmd)
		if err != nil {
			return err
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		pool, err := openPool()
		if err != nil {
			return err
		}
		defer pool.Close()

		store := storage.NewContainer(pool)
		aggregator := reviewing.NewAggregator(store.Reviews, store.Targets, logger.Sugar())

		if all {
			n, err := aggregator.RecomputeAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d targets\n", n)
			return err
		}

		agg, err := aggregator.Recompute(cmd.Context(), target)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d: average %.1f over %d reviews\n", target.Kind, target.ID, agg.AverageRating, agg.TotalReviews)
		return nil
	},
}

// recomputeScope reads the target selection from flags only. These are not
// bound to viper so unrelated ALL, KIND or ID variables cannot change it.
func recomputeScope(cmd *cobra.Command) (bool, reviews.Target, error) {
	flags := cmd.Flags()
	all, err := flags.GetBool("all")
	if err != nil {
		return false, reviews.Target{}, err
	}
	kind, err := flags.GetString("kind")
	if err != nil {
		return false, reviews.Target{}, err
	}
	id, err := flags.GetInt64("id")
	if err != nil {
		return false, reviews.Target{}, err
	}

	target := reviews.Target{ID: id, Kind: reviews.TargetKind(kind)}
	if all {
		return true, reviews.Target{}, nil
	}
	if !target.Kind.Valid() || target.ID <= 0 {
		return false, reviews.Target{}, errors.New("pass --all or both --kind (place|event) and --id")
	}
	return false, target, nil
}

func addRecomputeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("all", false, "Recompute every place and event that has reviews or a stored rating")
	cmd.Flags().String("kind", "", "Target kind: place or event")
	cmd.Flags().Int64("id", 0, "Target ID")
}

func openPool() (*pgxpool.Pool, error) {
	addr := viper.GetString("db_addr")
	if addr == "" {
		return nil, errors.New("DB_ADDR is not set")
	}
	return db.New(addr, viper.GetInt32("db_max_open_conns"), viper.GetString("db_max_idle_time"))
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.env)")
	rootCmd.PersistentFlags().String("db-addr", "", "Postgres connection string (env DB_ADDR)")
	rootCmd.PersistentFlags().Int32("db-max-open-conns", 4, "Maximum pool size (env DB_MAX_OPEN_CONNS)")
	rootCmd.PersistentFlags().String("db-max-idle-time", "5m", "Idle connection lifetime (env DB_MAX_IDLE_TIME)")

	addRecomputeFlags(recomputeCmd)

	viper.BindPFlag("db_addr", rootCmd.PersistentFlags().Lookup("db-addr"))
	viper.BindPFlag("db_max_open_conns", rootCmd.PersistentFlags().Lookup("db-max-open-conns"))
	viper.BindPFlag("db_max_idle_time", rootCmd.PersistentFlags().Lookup("db-max-idle-time"))

	rootCmd.AddCommand(migrateCmd, recomputeCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("env")
		viper.SetConfigName(".env")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
