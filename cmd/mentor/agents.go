package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agenticmentor/mentor/internal/capability"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the collaborators and what they produce",
	Run: func(cmd *cobra.Command, args []string) {
		caps := capability.DefaultStore()
		for _, entry := range caps.Entries() {
			fmt.Printf("%s  %s\n", color.CyanString("%-22s", entry.ID), entry.Description)

			requires := "none"
			if entry.Requires.All() {
				requires = "entire project record"
			} else if names := entry.Requires.Names(); len(names) > 0 {
				requires = strings.Join(names, ", ")
			}
			fmt.Printf("%-24s requires: %s\n", "", requires)

			if len(entry.Produces) > 0 {
				fmt.Printf("%-24s produces: %s\n", "", strings.Join(entry.Produces, ", "))
			}
			fmt.Println()
		}
	},
}
