package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"docdesk/internal/model"
	"docdesk/internal/store"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the saved DMS session",
	}
	cmd.AddCommand(newSessionLoginCmd(app))
	cmd.AddCommand(newSessionStatusCmd(app))
	cmd.AddCommand(newSessionLogoutCmd(app))
	return cmd
}

func newSessionLoginCmd(app *App) *cobra.Command {
	var server, user, name, org, token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the server URL and acting identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(server) == "" {
				return errors.New("--server is required")
			}
			if strings.TrimSpace(user) == "" {
				return errors.New("--user is required")
			}
			if name == "" {
				name = user
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			cfg.Session = model.Session{
				ServerURL:        strings.TrimRight(server, "/"),
				CurrentUserLogin: user,
				CurrentUserName:  name,
				Organization:     org,
				Token:            token,
			}
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, cfg.Session)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "DMS server URL")
	cmd.Flags().StringVar(&user, "user", "", "User login")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the login)")
	cmd.Flags().StringVar(&org, "org", "", "Organization (channel source fallback)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the DMS API")
	return cmd
}

func newSessionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved session and token expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			out := map[string]any{
				"serverUrl":        cfg.Session.ServerURL,
				"currentUserLogin": cfg.Session.CurrentUserLogin,
				"currentUserName":  cfg.Session.CurrentUserName,
				"organization":     cfg.Session.Organization,
				"hasToken":         cfg.Session.Token != "",
			}
			if cfg.Session.Token != "" {
				// The server validates the signature; here the claims are
				// only inspected for display.
				if claims, err := tokenClaims(cfg.Session.Token); err != nil {
					out["tokenError"] = err.Error()
				} else {
					for k, v := range claims {
						out[k] = v
					}
				}
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newSessionLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			cfg.Session = model.Session{}
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"loggedOut": true})
		},
	}
}

// tokenClaims extracts display-oriented claims from the bearer token
// without verifying the signature.
func tokenClaims(token string) (map[string]any, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	out := map[string]any{}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		out["tokenSubject"] = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out["tokenExpires"] = exp.UTC().Format(time.RFC3339)
		out["tokenExpired"] = time.Now().After(exp.Time)
	}
	return out, nil
}
