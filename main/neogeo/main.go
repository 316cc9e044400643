package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/machbase/neo-geo/booter"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/machbase/neo-geo/mods/logging"
	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "neogeo [command] [flags] [args]",
		Short:         "neogeo converts coordinates and extents between reference systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Shutdown()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "`<path>` to a configuration file (.hcl, .yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "`<level>` TRACE, DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().String("log-filename", "", "`<path>` of the log file, '-' for stdout")
	rootCmd.PersistentFlags().StringP("format", "f", "box", "`<format>` of the output: box, csv, md, json")
	rootCmd.PersistentFlags().String("box-style", "light", "`<style>` of box output: default, bold, double, light, round")

	rootCmd.AddCommand(
		newCrsCmd(),
		newReprojectCmd(),
		newDistanceCmd(),
		newExtentCmd(),
		newTileCmd(),
		newSunCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	cfg := booter.DefaultConfig()
	cfg.Logging.Filename = "."
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := booter.LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.DefaultLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-filename") {
		cfg.Logging.Filename, _ = cmd.Flags().GetString("log-filename")
	}
	if err := cfg.Apply(crs.Default()); err != nil {
		return err
	}
	logging.GetLog("neogeo").Debugf("command %s %v", cmd.Name(), args)
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	ret := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		ret[i] = v
	}
	return ret, nil
}
