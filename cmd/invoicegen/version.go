package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version y BuildDate se fijan al compilar:
//
//	go build -ldflags "-X main.Version=1.2.0 -X main.BuildDate=2024-01-01" ./cmd/invoicegen
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "invoicegen %s (build %s, %s)\n", Version, BuildDate, runtime.Version())
		},
	}
}
