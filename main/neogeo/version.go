package main

import (
	"github.com/machbase/neo-geo/mods"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := mods.GetVersion()
			box := newBox(cmd, "NAME", "VALUE")
			box.AppendRow("version", v.String())
			box.AppendRow("git", v.GitSHA)
			box.AppendRow("built", mods.BuildTimestamp())
			box.AppendRow("compiler", mods.BuildCompiler())
			return box.Render()
		},
	}
}
