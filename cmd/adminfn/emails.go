package main

import (
	"strings"

	"github.com/spf13/cobra"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/emails"
)

func (c *cli) emailsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "emails", Short: "Inspect sent emails"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the most recent emails known to the email service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctr, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer ctr.Close()

			emails, err := ctr.Services.Emails.Status.Recent(ctx)
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(emails))
			for _, e := range emails {
				lines = append(lines, string(e))
			}
			text := strings.Join(lines, "\n")
			if len(lines) == 0 {
				text = "no emails"
			}
			return c.print(cmd, dto.EmailStatusResponse{Emails: emails}, text)
		},
	})
	return cmd
}

