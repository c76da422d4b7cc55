package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// errReported marks failures already printed to the user.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bodyfat",
		Short: "Estimate body fat with the U.S. Navy circumference method",
		Long: `bodyfat estimates body-fat percentage from height, neck, waist and,
for women, hip circumference in centimeters.

With --recommend it also asks the configured text generator for general
wellness commentary on the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEstimateCmd())
	return root
}
