package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pquill/hostdesk/internal/session"
)

func newLoginCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with a PIN and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, *configPath)
		},
	}
}

func runLogin(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	client, _, store, err := connect(cfg, nil)
	if err != nil {
		return err
	}

	pin, err := readPIN(cmd)
	if err != nil {
		return err
	}
	if pin == "" {
		return fmt.Errorf("login: empty PIN")
	}

	role, cookie, err := client.Login(cmd.Context(), pin)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := store.Save(&session.Session{Cookie: cookie, Role: role}); err != nil {
		return fmt.Errorf("login: save session: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", role)
	return nil
}

// readPIN prompts without echo when stdin is a terminal, and falls back to
// a plain line read so the command stays scriptable.
func readPIN(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.OutOrStdout(), "PIN: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read pin: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read pin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
