package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/store"
	"docdesk/internal/view"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Document master list operations",
	}
	cmd.AddCommand(newDocsListCmd(app))
	cmd.AddCommand(newDocsShowCmd(app))
	cmd.AddCommand(newDocsDeleteCmd(app))
	return cmd
}

func newDocsListCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List document records",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := loadSession(app)
			if err != nil {
				return err
			}
			docs, err := fetchDocs(cmd.Context(), session)
			if err != nil {
				return err
			}

			out := docs
			if strings.TrimSpace(filter) != "" {
				out = out[:0:0]
				for _, d := range docs {
					if view.MatchesFilter(d, filter) {
						out = append(out, d)
					}
				}
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Keep only records whose fields contain this text (case-insensitive)")
	return cmd
}

func newDocsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref-seq-no>",
		Short: "Show one document record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refSeqNo, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ref seq no: %q", args[0])
			}
			session, _, err := loadSession(app)
			if err != nil {
				return err
			}
			docs, err := fetchDocs(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, d := range docs {
				if d.RefSeqNo == refSeqNo {
					return writeOut(cmd, app, d)
				}
			}
			return fmt.Errorf("document %d not found", refSeqNo)
		},
	}
}

func newDocsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <ref-seq-no>",
		Short: "Delete a document record (ownership and status rules apply)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refSeqNo, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ref seq no: %q", args[0])
			}
			session, _, err := loadSession(app)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			audit, err := openAudit()
			if err != nil {
				return err
			}
			defer audit.Close()

			docs, err := fetchDocs(ctx, session)
			if err != nil {
				return err
			}
			var doc *model.DocumentRecord
			for i := range docs {
				if docs[i].RefSeqNo == refSeqNo {
					doc = &docs[i]
					break
				}
			}
			if doc == nil {
				return fmt.Errorf("document %d not found", refSeqNo)
			}

			// Same gate as the TUI: denial is local, audited, and never
			// reaches the server.
			if reason := perm.CanModifyDocument(doc, session); reason != "" {
				_ = audit.Append(ctx, session.CurrentUserLogin, store.AuditDeleteDenied, refSeqNo, reason)
				return errors.New(reason)
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete document #%d (%s)? [y/N] ", doc.RefSeqNo, doc.DocumentDescription)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
					return errors.New("aborted")
				}
			}

			client := newClient(session)
			message, err := client.Delete(ctx, model.DeleteRequest{
				UserName: doc.UserName,
				RefSeqNo: refSeqNo,
			}, session.CurrentUserLogin)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Document deleted."
			}
			_ = audit.Append(ctx, session.CurrentUserLogin, store.AuditDelete, refSeqNo, message)
			return writeOut(cmd, app, map[string]any{
				"deleted": refSeqNo,
				"message": message,
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

// fetchDocs runs one synchronous master-list refresh.
func fetchDocs(ctx context.Context, session model.Session) ([]model.DocumentRecord, error) {
	records := store.NewRecords(newClient(session), session)
	docs := records.Refresh(ctx)
	if msg := records.Err(); msg != "" {
		return nil, errors.New(msg)
	}
	return docs, nil
}
