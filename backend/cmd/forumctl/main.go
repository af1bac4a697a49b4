// Command forumctl provisions the forum and graph schemas and loads sample data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursehub/backend/internal/forum"
	"coursehub/backend/internal/graph"
	"coursehub/backend/pkg/config"
	"coursehub/backend/pkg/logger"
)

var (
	rootCmd = &cobra.Command{
		Use:   "forumctl",
		Short: "Manage the course forum and learning graph stores",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
				return err
			}
			appConfig = cfg
			return nil
		},
		SilenceUsage: true,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the Cassandra keyspace and tables and the Neo4j constraints",
		Long:  `Every statement is idempotent, so migrate is safe to run on every deploy.`,
		RunE:  runMigrate,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load sample threads, posts and a small learning graph",
		RunE:  runSeed,
	}

	appConfig *config.Config
	timeout   time.Duration
	skipForum bool
	skipGraph bool
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")
	seedCmd.Flags().BoolVar(&skipForum, "skip-forum", false, "do not seed Cassandra")
	seedCmd.Flags().BoolVar(&skipGraph, "skip-graph", false, "do not seed Neo4j")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	log := logger.Get()

	session, err := forum.Connect(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("cassandra: %w", err)
	}
	session.Close()

	driver, err := graph.NewDriver(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}
	repo := graph.NewRepository(driver, appConfig.Neo4jDatabase)
	defer repo.Close(context.Background())
	if err := repo.EnsureConstraints(ctx); err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}

	log.Info("Migration complete", zap.String("keyspace", appConfig.CassandraKeyspace))
	fmt.Fprintln(cmd.OutOrStdout(), "schemas ready")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	out := cmd.OutOrStdout()

	if !skipForum {
		session, err := forum.Connect(ctx, appConfig)
		if err != nil {
			return fmt.Errorf("cassandra: %w", err)
		}
		writeCL, _ := appConfig.WriteConsistency()
		readCL, _ := appConfig.ReadConsistency()
		store := forum.NewStore(session, forum.Options{WriteConsistency: writeCL, ReadConsistency: readCL})
		err = seedForum(ctx, store, out)
		store.Close()
		if err != nil {
			return err
		}
	}

	if !skipGraph {
		driver, err := graph.NewDriver(ctx, appConfig)
		if err != nil {
			return fmt.Errorf("neo4j: %w", err)
		}
		defer driver.Close(context.Background())
		repo := graph.NewRepository(driver, appConfig.Neo4jDatabase)
		if err := repo.EnsureConstraints(ctx); err != nil {
			return fmt.Errorf("neo4j: %w", err)
		}
		if err := seedGraph(ctx, repo, evaluatesWriter(driver, appConfig.Neo4jDatabase), out); err != nil {
			return err
		}
	}
	return nil
}

// evaluatesWriter links exercises to the skills they assess. EVALUATES is
// maintained outside the repository, so the seed writes it directly.
func evaluatesWriter(driver neo4j.DriverWithContext, database string) func(ctx context.Context, links []evaluatesLink) error {
	return func(ctx context.Context, links []evaluatesLink) error {
		rows := make([]map[string]interface{}, 0, len(links))
		for _, l := range links {
			rows = append(rows, map[string]interface{}{"exercise_id": l.ExerciseID, "skill_id": l.SkillID})
		}
		_, err := neo4j.ExecuteQuery(ctx, driver, `
			UNWIND $links AS link
			MERGE (e:Exercise {id: link.exercise_id})
			MERGE (s:Skill {id: link.skill_id})
			MERGE (e)-[:EVALUATES]->(s)
		`, map[string]interface{}{"links": rows},
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(database),
		)
		return err
	}
}
