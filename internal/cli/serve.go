package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/moodlist/internal/db"
	"github.com/dori/moodlist/internal/server"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr  string
	db    string
	token string
	auth  bool
}

func addServe(topLevel *cobra.Command, g *globalOptions) {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a task store backed by SQLite.",
		Long: `Run the HTTP task store the client talks to. Tasks live in a SQLite
database. With --auth or --token every request needs the session cookie
"session" set to the token.`,
		Example: `
moodlist serve
moodlist serve --addr :8080 --auth
moodlist serve --db ./tasks.db --token s3cret
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			flags := cmd.Flags()
			addr, dbPath, token := cfg.Serve.Addr, cfg.Serve.DB, cfg.Serve.Token
			if flags.Changed("addr") {
				addr = so.addr
			}
			if flags.Changed("db") {
				dbPath = so.db
			}
			if flags.Changed("token") {
				token = so.token
			}
			if so.auth && token == "" {
				token = uuid.NewString()
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))

			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			store, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if token != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "session token: %s\n", token)
			}
			logger.Info("opened task store", "db", dbPath)

			srv := server.New(server.Options{
				Store:     store,
				Generator: server.MockGenerator{},
				Token:     token,
				Logger:    logger,
			})
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", "", "Listen address (default serve.addr).")
	cmd.Flags().StringVar(&so.db, "db", "", "SQLite database path (default serve.db).")
	cmd.Flags().StringVar(&so.token, "token", "", "Session token required from clients.")
	cmd.Flags().BoolVar(&so.auth, "auth", false, "Require a session, generating a token when none is set.")

	topLevel.AddCommand(cmd)
}
