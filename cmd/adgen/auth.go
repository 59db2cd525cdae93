package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"adstudio/internal/session"
)

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			email, password, err := readCredentials(cmd.InOrStdin(), out, email)
			if err != nil {
				return err
			}

			sess, err := e.sessions.SignIn(cmd.Context(), email, password)
			if errors.Is(err, session.ErrInvalidCredentials) {
				return errors.New("login failed: invalid email or password")
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintf(out, "Logged in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

// readCredentials prompts on out for whatever is missing. Both answers come
// from in: a terminal gets a hidden password prompt, piped input is read line
// by line.
func readCredentials(in io.Reader, out io.Writer, email string) (string, string, error) {
	br := bufio.NewReader(in)
	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", "", fmt.Errorf("read email: %w", io.ErrUnexpectedEOF)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		return email, string(password), nil
	}
	line, err := br.ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && (err != io.EOF || line == "") {
		return "", "", fmt.Errorf("read password: %w", io.ErrUnexpectedEOF)
	}
	return email, strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := e.sessions.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			u, err := e.sessions.CurrentUser(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}
