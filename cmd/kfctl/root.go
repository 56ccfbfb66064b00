package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrasband/kflash/internal/klog"
)

var (
	verbose    bool
	jsonOut    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "kfctl",
	Short: "Operate on a kflash feature-store flash image",
	Long: `kfctl creates, inspects, and mutates a flash image file backing
a kflash dynamic feature store: installing and removing feature images,
and listing what is currently allocated.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		klog.Init(klog.Options{Enabled: true, Verbose: verbose})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config overriding device/kernel defaults")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
