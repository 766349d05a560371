package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/archive_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/publish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/restore_to_published"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/verify_product"
	"github.com/devdaily/catalog-service/internal/services"
)

const recentPricePoints = 10

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Inspect products and move them through the editorial workflow",
	}
	cmd.AddCommand(newProductListCmd())
	cmd.AddCommand(newProductShowCmd())
	cmd.AddCommand(newProductVerifyCmd())
	cmd.AddCommand(newProductPublishCmd())
	cmd.AddCommand(newProductArchiveCmd())
	cmd.AddCommand(newProductRestoreCmd())
	return cmd
}

func newProductListCmd() *cobra.Command {
	var (
		status string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products across every lifecycle stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := contracts.ProductListFilter{Limit: limit, Offset: offset}
			if status != "" {
				st := domain.ProductStatus(status)
				if !st.IsValid() {
					return fmt.Errorf("unknown status %q (valid: %s)", status, statusNames())
				}
				filter.Status = &st
			}

			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				products, err := s.Products.List(ctx, s.DB, filter)
				if err != nil {
					return err
				}
				if len(products) == 0 {
					fmt.Println("No products found")
					return nil
				}

				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Name", "Status", "Price", "Published", "Updated"})
				for _, p := range products {
					t.AppendRow(table.Row{
						p.ID(),
						p.Name(),
						string(p.Status()),
						p.Price().String(),
						formatTimePtr(p.PublishedAt()),
						p.UpdatedAt().Format(time.RFC3339),
					})
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by lifecycle status")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newProductShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product with its links and recent price points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				p, err := s.Products.GetByID(ctx, s.DB, args[0])
				if err != nil {
					return err
				}

				fmt.Printf("ID:          %s\n", p.ID())
				fmt.Printf("Name:        %s\n", p.Name())
				fmt.Printf("Slug:        %s\n", p.Slug())
				fmt.Printf("Category:    %s\n", p.CategoryID())
				fmt.Printf("Status:      %s\n", p.Status())
				fmt.Printf("Price:       %s\n", p.Price())
				fmt.Printf("Verified:    %s (by %s)\n", formatTimePtr(p.VerifiedAt()), orDash(p.VerifiedBy()))
				fmt.Printf("Published:   %s\n", formatTimePtr(p.PublishedAt()))
				fmt.Printf("Link check:  %s\n", formatTimePtr(p.LastLinkCheck()))
				fmt.Printf("Price check: %s\n", formatTimePtr(p.LastPriceCheck()))

				links, err := s.Links.ListForProduct(ctx, s.DB, p.ID())
				if err != nil {
					return err
				}
				if len(links) > 0 {
					fmt.Println("\nAffiliate links:")
					t := table.NewWriter()
					t.SetOutputMirror(os.Stdout)
					t.SetStyle(table.StyleLight)
					t.AppendHeader(table.Row{"Marketplace", "URL", "Price", "Healthy", "Last checked"})
					for _, l := range links {
						t.AppendRow(table.Row{
							l.MarketplaceID(),
							l.URL(),
							l.Price().String(),
							l.Healthy(),
							formatTimePtr(l.LastCheckedAt()),
						})
					}
					t.Render()
				}

				points, err := s.History.ListForProduct(ctx, s.DB, p.ID(), recentPricePoints)
				if err != nil {
					return err
				}
				if len(points) > 0 {
					fmt.Println("\nRecent price points:")
					t := table.NewWriter()
					t.SetOutputMirror(os.Stdout)
					t.SetStyle(table.StyleLight)
					t.AppendHeader(table.Row{"Recorded", "Price", "Marketplace"})
					for _, pt := range points {
						t.AppendRow(table.Row{
							pt.RecordedAt.Format(time.RFC3339),
							pt.Price.String(),
							pt.MarketplaceID,
						})
					}
					t.Render()
				}
				return nil
			})
		},
	}
}

func newProductVerifyCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "verify <product-id>",
		Short: "Approve a product awaiting verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				req := &verify_product.Request{ActorID: actor, ProductID: args[0]}
				if err := s.VerifyProduct.Execute(ctx, req); err != nil {
					return err
				}
				fmt.Printf("Product %s verified\n", args[0])
				return nil
			})
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}

func newProductPublishCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "publish <product-id>",
		Short: "Push a verified product onto the storefront",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				req := &publish_product.Request{ActorID: actor, ProductID: args[0]}
				if err := s.PublishProduct.Execute(ctx, req); err != nil {
					return err
				}
				fmt.Printf("Product %s published\n", args[0])
				return nil
			})
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}

func newProductArchiveCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "archive <product-id>",
		Short: "Archive a product from any lifecycle stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				req := &archive_product.Request{ActorID: actor, ProductID: args[0]}
				if err := s.ArchiveProduct.Execute(ctx, req); err != nil {
					return err
				}
				fmt.Printf("Product %s archived\n", args[0])
				return nil
			})
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}

func newProductRestoreCmd() *cobra.Command {
	var (
		actor     string
		published bool
	)
	cmd := &cobra.Command{
		Use:   "restore <product-id>",
		Short: "Bring an archived product back as a draft, or straight to published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				if published {
					req := &restore_to_published.Request{ActorID: actor, ProductID: args[0]}
					if err := s.RestoreToPublished.Execute(ctx, req); err != nil {
						return err
					}
					fmt.Printf("Product %s restored to published\n", args[0])
					return nil
				}
				req := &restore_product.Request{ActorID: actor, ProductID: args[0]}
				if err := s.RestoreProduct.Execute(ctx, req); err != nil {
					return err
				}
				fmt.Printf("Product %s restored to draft\n", args[0])
				return nil
			})
		},
	}
	addActorFlag(cmd, &actor)
	cmd.Flags().BoolVar(&published, "published", false, "restore directly to the published stage")
	return cmd
}

func addActorFlag(cmd *cobra.Command, actor *string) {
	cmd.Flags().StringVar(actor, "actor", "", "admin user id performing the action")
	_ = cmd.MarkFlagRequired("actor")
}

func statusNames() string {
	all := domain.AllStatuses()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
