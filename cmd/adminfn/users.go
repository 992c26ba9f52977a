package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	svc "github.com/CardChase151/clients-sub001/internal/http/services/users"
)

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Create or delete users across the identity service and the store"}
	cmd.AddCommand(c.usersCreateCmd(), c.usersDeleteCmd())
	return cmd
}

type outcomeOutput struct {
	Outcome string `json:"outcome"`
	UserID  string `json:"userId,omitempty"`
	Email   string `json:"email,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *cli) usersCreateCmd() *cobra.Command {
	var email, password, fullName string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an identity and its profile row, rolling back the identity on failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctr, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer ctr.Close()

			res, err := ctr.Services.Users.Provisioner.Provision(ctx, svc.ProvisionInput{
				Email: email, Password: password, FullName: fullName,
			})
			if err != nil {
				return err
			}

			out := outcomeOutput{Outcome: string(res.Outcome)}
			if res.User != nil {
				out.UserID, out.Email = res.User.ID, res.User.Email
			}
			if res.Outcome != svc.OutcomeCompleted {
				out.Error = res.Message()
			}
			if err := c.print(cmd, out, fmt.Sprintf("%s %s %s", out.Outcome, out.UserID, out.Error)); err != nil {
				return err
			}
			if res.Outcome != svc.OutcomeCompleted {
				return errors.New("create did not complete: " + string(res.Outcome))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name stored in identity metadata")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) usersDeleteCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the profile row, then the identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctr, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer ctr.Close()

			res, err := ctr.Services.Users.Deprovisioner.Deprovision(ctx, userID)
			if err != nil {
				return err
			}

			out := outcomeOutput{Outcome: string(res.Outcome), UserID: res.UserID}
			if res.Outcome != svc.OutcomeCompleted {
				out.Error = res.Message()
			}
			if err := c.print(cmd, out, fmt.Sprintf("%s %s %s", out.Outcome, out.UserID, out.Error)); err != nil {
				return err
			}
			if res.Outcome != svc.OutcomeCompleted {
				return errors.New("delete did not complete: " + string(res.Outcome))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "id", "", "user id (uuid, required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
