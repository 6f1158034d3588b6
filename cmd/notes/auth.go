package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.offline {
			return errors.New("register is not available offline")
		}
		password, err := passwordFromFlagOrInput(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		s, err := app.auth.Register(ctx, authEmail, password, authName)
		if err != nil {
			return err
		}
		if err := app.startSession(s); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", s.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.offline {
			return errors.New("login is not available offline")
		}
		password, err := passwordFromFlagOrInput(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		s, err := app.auth.Login(ctx, authEmail, password)
		if err != nil {
			return err
		}
		if err := app.startSession(s); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.offline || !app.sessions.Current().IsAuthenticated() {
			app.forgetSession()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}

		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		// Локальная сессия удаляется даже если сервер недоступен
		err := app.auth.Logout(ctx)
		app.forgetSession()
		if err != nil {
			return fmt.Errorf("signed out locally, server said: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = withAuth(&cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.sessions.Current()
		name := s.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", s.OwnerID, s.Email, name)
		return nil
	},
})

// passwordFromFlagOrInput берет пароль из флага или первой строки stdin
func passwordFromFlagOrInput(cmd *cobra.Command) (string, error) {
	if authEmail == "" {
		return "", errors.New("--email is required")
	}
	if authPassword != "" {
		return authPassword, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
		cmd.Flags().StringVarP(&authPassword, "password", "p", "", "account password (read from stdin when empty)")
	}
	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "display name")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
