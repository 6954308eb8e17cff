package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"libraryhub/internal/auth"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

var (
	librarianUsername string
	librarianName     string
	librarianPassword string
)

var librarianCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Create an approved librarian account",
	Long: `Creates a librarian that can log in immediately, so the first approvals
can happen. The password is prompted for when --password is omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := librarianPassword
		if password == "" {
			var err error
			password, err = readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
		}
		if password == "" {
			return errors.New("password must not be empty")
		}

		app, err := openEnv()
		if err != nil {
			return err
		}
		defer app.Close()

		sessions := auth.NewSessionService(app.cfg.SessionSecret, app.cfg.SessionTTL)
		authService := service.NewAuthService(app.store.Users, sessions, auth.NewTokenStore(app.cache), true)
		user, err := authService.Register(cmd.Context(), service.RegisterInput{
			Username: librarianUsername,
			Password: password,
			Role:     model.RoleLibrarian,
			Name:     librarianName,
		})
		if err != nil {
			return fmt.Errorf("create librarian %q: %w", librarianUsername, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "librarian %s created (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	librarianCmd.Flags().StringVarP(&librarianUsername, "username", "u", "", "Login name")
	librarianCmd.Flags().StringVar(&librarianName, "name", "", "Display name")
	librarianCmd.Flags().StringVarP(&librarianPassword, "password", "p", "", "Password (prompted when empty)")
	_ = librarianCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(librarianCmd)
}

// readPassword reads a password without echo when stdin is a terminal.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to prompt on; pass --password")
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
