package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventadmin/internal/adapters/email"
	"eventadmin/internal/services"
)

func newMailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Check the configured mail provider",
	}
	cmd.AddCommand(newMailTestCmd())
	return cmd
}

func newMailTestCmd() *cobra.Command {
	var to, subject string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a plain test message through the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			mailer, err := email.NewMailer(cfg.Mail)
			if err != nil {
				return fmt.Errorf("creating mailer: %w", err)
			}
			// templates are not needed for a plain message
			svc := services.NewEmailService(mailer, nil)
			body := fmt.Sprintf("This is a test message from eventadmin (provider %q).", cfg.Mail.Provider)
			if !svc.Deliver(cmd.Context(), to, subject, body) {
				return fmt.Errorf("test message to %s was not delivered", to)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test message sent to %s.\n", to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient address (required)")
	cmd.Flags().StringVar(&subject, "subject", "eventadmin test message", "Subject line")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
