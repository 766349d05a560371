package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	admindomain "github.com/devdaily/catalog-service/internal/app/admin/domain"
	"github.com/devdaily/catalog-service/internal/app/admin/usecases/create_admin"
	"github.com/devdaily/catalog-service/internal/services"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var (
		actor    string
		email    string
		name     string
		password string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		Long: `Creates an admin user. Without --actor the record is attributed to the
system actor, which is how the first admin gets seeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CATALOG_ADMIN_PASSWORD")
				if password == "" {
					return errors.New("password is required; use --password or CATALOG_ADMIN_PASSWORD")
				}
			}
			r := admindomain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("unknown role %q (valid: %s)", role, roleNames())
			}

			return withServices(cmd, func(ctx context.Context, s *services.ServiceOptions) error {
				id, err := s.CreateAdmin.Execute(ctx, &create_admin.Request{
					ActorID:  actor,
					Email:    email,
					Name:     name,
					Password: password,
					Role:     r,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Admin %s created (%s)\n", id, email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "admin user id performing the action (empty seeds as system)")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (or CATALOG_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", "editor", "viewer, editor, publisher, or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func roleNames() string {
	all := admindomain.AllRoles()
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
