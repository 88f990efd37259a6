package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/artpar/docgate/adapters/auth"
)

var hashpassCmd = &cobra.Command{
	Use:   "hashpass",
	Short: "Hash an admin password for the config file",
	Long: `Read a password and print its bcrypt hash, for use as
docs.admin_password_hash in the configuration file.`,
	RunE: runHashpass,
}

func init() {
	rootCmd.AddCommand(hashpassCmd)
}

func runHashpass(cmd *cobra.Command, args []string) error {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	hash, err := auth.HashPassword(string(raw))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Println(hash)
	return nil
}
