package cmd

import (
	"fmt"
	"os"

	dictcmd "github.com/Attumm/valkey-dict/cmd/dict"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "vdict",
		Short: "dictionary backed by a Valkey/Redis server",
		Long: fmt.Sprintf(`valkey-dict (v%s)

A typed dictionary backed by a Valkey/Redis server. Values are stored with a
type tag so they round-trip as the type they were written with.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of valkey-dict",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("valkey-dict v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(dictcmd.DictCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
