package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/services"
)

const maxChangeSummaryLen = 60

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}
	cmd.AddCommand(newAuditTailCmd())
	return cmd
}

func newAuditTailCmd() *cobra.Command {
	var (
		actor      string
		action     string
		entityType string
		entityID   string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the newest audit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				records, err := s.Audits.List(ctx, s.DB, audit.Filter{
					ActorID:    actor,
					Action:     action,
					EntityType: entityType,
					EntityID:   entityID,
					Limit:      limit,
				})
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No audit records found")
					return nil
				}

				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "At", "Actor", "Action", "Entity", "Changes"})
				for _, r := range records {
					t.AppendRow(table.Row{
						r.ID,
						r.CreatedAt.Format(time.RFC3339),
						r.ActorID,
						r.Action,
						fmt.Sprintf("%s/%s", r.EntityType, r.EntityID),
						truncate(r.Summary(), maxChangeSummaryLen),
					})
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "filter by actor id")
	cmd.Flags().StringVar(&action, "action", "", "filter by action name")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "filter by entity type")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "filter by entity id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to show")
	return cmd
}

// truncate keeps a change summary from blowing out the table width.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
