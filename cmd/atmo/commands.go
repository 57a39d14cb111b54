package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/atmohq/atmo-backend/internal/app"
	"github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/modules/docgen/pdf"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and maintenance jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.New(ctx, log, cfg)
		if err != nil {
			log.Sync()
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			application.Close(closeCtx)
		}()
		return application.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()
		svc, err := app.OpenDatabase(log, cfg.Database, true)
		if err != nil {
			return err
		}
		defer svc.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

type classification struct {
	chat.Intent
	DocumentType string `json:"documentType"`
	Label        string `json:"label"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Print the document intent and type detected for a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := strings.Join(args, " ")
		t := chat.DetectDocumentType(msg)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(classification{Intent: chat.ClassifyIntent(msg), DocumentType: string(t), Label: t.Label()})
	},
}

var (
	renderOut   string
	renderType  string
	renderName  string
	renderTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Render a strategic document JSON file to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var doc docgen.StrategicDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}
		t := docgen.DocumentType(renderType)
		normalized := docgen.Normalize(&doc, t)
		title := renderTitle
		if title == "" {
			title = normalized.Title
		}
		now := time.Now().UTC()
		data, err := pdf.Render(normalized, title, t, "", pdf.Metadata{PreparedFor: renderName, GeneratedAt: now})
		if err != nil {
			return err
		}
		out := renderOut
		if out == "" {
			out = filepath.Join(filepath.Dir(args[0]), services.Filename(title, now, "pdf"))
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

var (
	tokenUser  string
	tokenEmail string
	tokenName  string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token for local testing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		id := uuid.New()
		if tokenUser != "" {
			if id, err = uuid.Parse(tokenUser); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}
		auth := services.NewAuthService(logger.Nop(), cfg.Auth.JWTSecret, cfg.Auth.Audience)
		token, err := auth.IssueToken(id, tokenEmail, tokenName, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output PDF path")
	renderCmd.Flags().StringVar(&renderType, "type", string(docgen.TypeStrategy), "document type")
	renderCmd.Flags().StringVar(&renderName, "for", "", "name shown on the cover")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "override the document title")

	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (random when empty)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "full name claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
