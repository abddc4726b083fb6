package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
	"github.com/tanpawarit/agentic-insurance-assistant/api"
	"github.com/tanpawarit/agentic-insurance-assistant/mcpserver"
	configx "github.com/tanpawarit/agentic-insurance-assistant/pkg/config"
	openrouterx "github.com/tanpawarit/agentic-insurance-assistant/pkg/openrouter"
	postgresx "github.com/tanpawarit/agentic-insurance-assistant/pkg/postgres"
	"github.com/tanpawarit/agentic-insurance-assistant/seed"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chat HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := postgresx.Ping(pingCtx, db); err != nil {
		log.Warn().Err(err).Msg("database is not reachable yet, lookups will fail until it is")
	}
	cancel()

	orch, err := buildOrchestrator(ctx, db)
	if err != nil {
		return err
	}

	serverCfg, err := configx.New[api.Config]("SERVER")
	if err != nil {
		return err
	}
	return api.NewServer(orch, *serverCfg).Run(ctx)
}

func seedCmd() *cobra.Command {
	cfg := seed.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a synthetic dataset into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := log.Logger.WithContext(cmd.Context())
			started := time.Now()
			sum, err := seed.Run(ctx, db, cfg)
			if err != nil {
				return err
			}

			log.Info().
				Int("customers", sum.Customers).
				Int("policies", sum.Policies).
				Int("claims", sum.Claims).
				Int("documents", sum.Documents).
				Int("claim_documents", sum.ClaimDocuments).
				Int("policy_documents", sum.PolicyDocuments).
				Dur("elapsed", time.Since(started)).
				Msg("seeding completed")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Customers, "customers", cfg.Customers, "number of customers")
	flags.IntVar(&cfg.Policies, "policies", cfg.Policies, "number of policies")
	flags.IntVar(&cfg.Claims, "claims", cfg.Claims, "number of claims")
	flags.IntVar(&cfg.Documents, "documents", cfg.Documents, "number of documents")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flags.Float64Var(&cfg.ClaimShare, "claim-share", cfg.ClaimShare, "probability that a document belongs to a claim")
	flags.BoolVar(&cfg.Reset, "reset", false, "drop and recreate the schema first")
	return cmd
}

func askCmd() *cobra.Command {
	var (
		userID         string
		showTranscript bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.Logger.WithContext(cmd.Context())

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			orch, err := buildOrchestrator(ctx, db)
			if err != nil {
				return err
			}

			out, err := orch.HandleMessage(ctx, userID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Answer)
			if showTranscript {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out.Messages)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "cli", "user id sent with the question")
	cmd.Flags().BoolVar(&showTranscript, "transcript", false, "print the full transcript as JSON")
	return cmd
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the lookup tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			_, executor, err := buildTools(cmd.Context(), db)
			if err != nil {
				return err
			}

			log.Info().Msg("serving MCP tools on stdio")
			return mcpserver.ServeStdio(mcpserver.New(executor, version))
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check database and model connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			var failed []string
			w := cmd.OutOrStdout()

			db, err := openDatabase()
			if err == nil {
				err = insurance.NewStore(db).Ping(ctx)
				_ = db.Close()
			}
			if err != nil {
				failed = append(failed, "database")
				fmt.Fprintf(w, "database: FAIL (%v)\n", err)
			} else {
				fmt.Fprintln(w, "database: ok")
			}

			modelCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
			if err == nil {
				var id string
				id, err = openrouterx.CheckModel(ctx, openrouterx.NewClient(*modelCfg), modelCfg.Model)
				if err == nil {
					fmt.Fprintf(w, "model: ok (%s)\n", id)
				}
			}
			if err != nil {
				failed = append(failed, "model")
				fmt.Fprintf(w, "model: FAIL (%v)\n", err)
			}

			if len(failed) > 0 {
				return errors.New("doctor: failed checks: " + strings.Join(failed, ", "))
			}
			return nil
		},
	}
}
