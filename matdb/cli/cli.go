// Package cli implements the matdb command line interface.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2025 Norbert Pillmayer <norbert@pillmayer.com>
//
package cli

import (
	"github.com/cfdkit/matdb"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "matdb",
	Short: "Load SCM material property databases into a typed catalog",
	Long: `matdb V0.1 (experimental)

matdb reads material property databases in the SCM dialect used by CFD
solvers and turns them into a typed catalog of materials: fluids, solids
and mixtures with their density, specific heat, viscosity, thermodynamic
fits and other physical properties.

The catalog is stored in a SQLite database, keyed by material name.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called exactly once by matdb.main().
func Execute() {
	rootCmd.AddCommand(loadCommand())
	rootCmd.AddCommand(showCommand())
	rootCmd.AddCommand(listCommand())
	if rootCmd.Execute() != nil {
		matdb.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().String("db", "materials.db", "Path of the material database")
	rootCmd.PersistentFlags().String("lang", "", "Language for display names (e.g. zh-CN)")
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
}
