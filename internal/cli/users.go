package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"eventadmin/internal/adapters/auth"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newUsersCreateCmd())
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var userEmail, name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account, prompting for the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword(os.Stdin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			authSvc, err := newAuthService(cfg, logger, db, auth.NewJWT(cfg.JWTSecret))
			if err != nil {
				return err
			}
			user, err := authSvc.Register(cmd.Context(), userEmail, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s).\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// promptNewPassword asks for a password twice and returns it if both entries match.
func promptNewPassword(in *os.File, out io.Writer) (string, error) {
	lines := bufio.NewReader(in)
	password, err := readPassword(in, lines, out, "Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword(in, lines, out, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

// readPassword reads without echo from a terminal; piped input is read line by line.
func readPassword(in *os.File, lines *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
