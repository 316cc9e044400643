package main

import (
	"fmt"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/spf13/cobra"
)

func newCrsCmd() *cobra.Command {
	crsCmd := &cobra.Command{
		Use:   "crs [command]",
		Short: "Manage coordinate reference systems",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered coordinate reference systems",
		Args:  cobra.NoArgs,
		RunE:  doCrsList,
	}
	showCmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show a coordinate reference system",
		Args:  cobra.ExactArgs(1),
		RunE:  doCrsShow,
	}
	defineCmd := &cobra.Command{
		Use:   "define <code> <proj>",
		Short: "Validate and register a proj definition",
		Args:  cobra.ExactArgs(2),
		RunE:  doCrsDefine,
	}
	crsCmd.AddCommand(listCmd, showCmd, defineCmd)
	return crsCmd
}

func appendCrsRow(box Box, code string) {
	source := ""
	if def, ok := crs.Lookup(code); ok {
		source = def.Source
	}
	axis, _ := crs.AxisOrder(code)
	box.AppendRow(code, crs.KindOf(code).String(), crs.UnitOf(code).String(), axis, source)
}

func doCrsList(cmd *cobra.Command, args []string) error {
	box := newBox(cmd, "CODE", "KIND", "UNIT", "AXIS", "PROJ")
	for _, code := range crs.Codes() {
		appendCrsRow(box, code)
	}
	return box.Render()
}

func doCrsShow(cmd *cobra.Command, args []string) error {
	code := args[0]
	if err := crs.AssertValid(code); err != nil {
		return err
	}
	def, _ := crs.Lookup(code)
	axis, _ := crs.AxisOrder(code)
	box := newBox(cmd, "NAME", "VALUE")
	box.AppendRow("code", code)
	box.AppendRow("kind", crs.KindOf(code).String())
	box.AppendRow("unit", crs.UnitOf(code).String())
	box.AppendRow("axis", axis)
	box.AppendRow("epsilon", crs.ReasonableEpsilon(code))
	box.AppendRow("proj", def.ProjName)
	box.AppendRow("definition", def.String())
	return box.Render()
}

func doCrsDefine(cmd *cobra.Command, args []string) error {
	code, proj := args[0], args[1]
	if _, err := crs.ParseDefinition(proj); err != nil {
		return err
	}
	crs.Define(code, proj)
	if _, err := crs.GetConverter(code, crs.WGS84); err != nil {
		return fmt.Errorf("crs %s, %w", code, err)
	}
	return doCrsShow(cmd, []string{code})
}
