package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jrasband/kflash/installer"
	"github.com/jrasband/kflash/kflash"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remove <image-file> <handle>",
		Short: "Free a feature's slot by handle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args[0], args[1])
		},
	}
	rootCmd.AddCommand(cmd)
}

func runRemove(imagePath, handleArg string) error {
	handle, err := parseHandle(handleArg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(imagePath)
	if err != nil {
		return err
	}

	dev, kernel, err := openKernel(imagePath, cfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := installer.Uninstall(kernel, handle); err != nil {
		return err
	}
	fmt.Printf("removed handle=%d\n", uint32(handle))
	return nil
}

func parseHandle(arg string) (kflash.Handle, error) {
	n, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return kflash.NoHandle, fmt.Errorf("invalid handle %q: %w", arg, err)
	}
	return kflash.Handle(uint32(n)), nil
}
