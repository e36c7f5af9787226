package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/agri-dcp-console/internal/models"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	creds := models.Credentials{Username: loginUsername, Password: loginPassword}

	reader := bufio.NewReader(cmd.InOrStdin())
	if creds.Username == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "username is required")
		}
		creds.Username = strings.TrimSpace(line)
	}
	if creds.Password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "password is required")
		}
		creds.Password = strings.TrimRight(line, "\r\n")
	}

	sess, err := app.Session.Login(cmd.Context(), creds)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (session valid until %s)\n",
		sess.Identity.Username, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app.Session.Logout()
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !app.Session.IsAuthenticated() {
		return appErrors.Clone(appErrors.ErrUnauthenticated, "")
	}
	identity := app.Session.CurrentIdentity()
	if identity == nil {
		return appErrors.Clone(appErrors.ErrUnauthenticated, "")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Username: %s\n", identity.Username)
	fmt.Fprintf(out, "ID:       %s\n", identity.ID)
	if identity.Email != "" {
		fmt.Fprintf(out, "Email:    %s\n", identity.Email)
	}
	if identity.Role != "" {
		fmt.Fprintf(out, "Role:     %s\n", identity.Role)
	}
	return nil
}
