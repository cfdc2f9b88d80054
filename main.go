package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/envelope/cmd"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "envelope",
	Short: "envelope - hybrid file encryption with wrapped keys",
	Long: `envelope encrypts files with a symmetric key and shares that key by
wrapping it with an RSA public key.

Features:
  - Encrypt and decrypt files with AES-CBC
  - Wrap the symmetric key for a recipient with RSA-OAEP
  - Keep an audit log of every key and file operation

Usage:
  envelope <command> [flags]

Available Commands:
  config     Manage envelope.toml
  keys       Generate, wrap and unwrap keys
  files      Encrypt and decrypt files
  log        View the audit log
  doctor     Run health checks

Run 'envelope help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("envelope", "small", "green", true).Print()
		fmt.Println()
		fmt.Println("Run 'envelope --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.KeysCmd)
	rootCmd.AddCommand(cmd.FilesCmd)
	rootCmd.AddCommand(cmd.LogCmd)
	rootCmd.AddCommand(cmd.DoctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
