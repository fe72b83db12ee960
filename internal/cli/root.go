package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docdesk/internal/dms"
	"docdesk/internal/format"
	"docdesk/internal/model"
	"docdesk/internal/resilience"
	"docdesk/internal/store"
	"docdesk/internal/tui"
	"docdesk/internal/view"
)

type App struct {
	Server     string
	User       string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "docdesk",
		Short:        "DMS document master list CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive table view
  docdesk

  # Scriptable commands
  docdesk docs list
  docdesk docs list --filter verified
  docdesk docs delete 1041 --yes

  # Session management
  docdesk session login --server https://dms.example.com --user alice --name "Alice"
  docdesk session status
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("DOCDESK_SERVER", ""), "DMS server URL (overrides the saved session)")
	cmd.PersistentFlags().StringVar(&app.User, "user", envOr("DOCDESK_USER", ""), "Acting user login (overrides the saved session)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DOCDESK_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newAuditCmd(app))

	return cmd
}

func runTUI(app *App) error {
	session, cfg, err := loadSession(app)
	if err != nil {
		return err
	}

	audit, err := openAudit()
	if err != nil {
		return err
	}
	defer audit.Close()

	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = view.DefaultPageSize
	}

	return tui.Run(tui.Options{
		Session:  session,
		Client:   newClient(session),
		Audit:    audit,
		PageSize: pageSize,
	})
}

// loadSession resolves the acting identity: saved session first, then the
// --server/--user overrides on top.
func loadSession(app *App) (model.Session, *store.GlobalConfig, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return model.Session{}, nil, err
	}
	session := cfg.Session
	if app.Server != "" {
		session.ServerURL = app.Server
	}
	if app.User != "" {
		session.CurrentUserLogin = app.User
		if session.CurrentUserName == "" {
			session.CurrentUserName = app.User
		}
	}
	if session.ServerURL == "" {
		return model.Session{}, nil, errors.New("no server configured; run `docdesk session login --server <url> --user <login>` (or pass --server)")
	}
	if session.CurrentUserLogin == "" {
		return model.Session{}, nil, errors.New("no user configured; run `docdesk session login` (or pass --user)")
	}
	return session, cfg, nil
}

func newClient(session model.Session) *dms.Client {
	return dms.New(session.ServerURL, session.Token, resilience.NewExecutor(resilience.DefaultConfig()))
}

func openAudit() (*store.AuditLog, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	return store.OpenAuditLog(dir)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
