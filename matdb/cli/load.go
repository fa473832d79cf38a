package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cfdkit/matdb"
	"github.com/cfdkit/matdb/catalog"
	"github.com/cfdkit/matdb/grammar"
	"github.com/cfdkit/matdb/names"
	"github.com/cfdkit/matdb/resolver"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

// Exit codes of the matdb driver.
const (
	exitOK            = 0
	exitInputFailure  = 2 // input open/read failure
	exitParseFailure  = 3 // parse failure with no materials recovered
	exitInternalFault = 4 // internal invariant violation
)

func loadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file.scm>",
		Short: "Parse an SCM property database and store its materials",
		Args:  cobra.ExactArgs(1),
		Run:   runLoad,
	}
	cmd.Flags().Bool("reset", false, "Remove an existing database file first")
	cmd.Flags().Bool("dump", false, "Print the resolved catalog as JSON to stdout")
	cmd.Flags().Bool("dry-run", false, "Parse and resolve only, do not store")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string) {
	src, err := os.ReadFile(args[0])
	if err != nil {
		tracing.Errorf("cannot read input: %v", err)
		matdb.Exit(exitInputFailure)
	}
	raw, parseDiags, err := grammar.NewParser().ParseFile(src)
	if err != nil {
		tracing.Errorf("cannot scan %q: %v", args[0], err)
		matdb.Exit(exitParseFailure)
	}
	result := resolver.ResolveFile(raw, parseDiags)
	reportDiagnostics(result.Diagnostics)
	if len(result.Materials) == 0 {
		tracing.Errorf("no materials recovered from %q", args[0])
		matdb.Exit(exitParseFailure)
	}
	if lang := matdb.Configuration.String("lang"); lang != "" {
		names.Apply(result.Materials, names.For(lang))
	}
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		dumpCatalog(result.Materials)
	}
	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return
	}
	store := openStore(cmd, true)
	defer store.Close()
	if err := catalog.New(store).SaveAll(result.Materials); err != nil {
		tracing.Errorf("cannot store materials: %v", err)
		matdb.Exit(exitInternalFault)
	}
	tracer().Infof("stored %d materials", len(result.Materials))
}

func openStore(cmd *cobra.Command, allowReset bool) catalog.Store {
	dbpath := matdb.Configuration.String("db")
	reset := false
	if allowReset {
		reset, _ = cmd.Flags().GetBool("reset")
	}
	store, err := catalog.OpenSQLite(dbpath, reset)
	if err != nil {
		tracing.Errorf("%v", err)
		matdb.Exit(exitInputFailure)
	}
	return store
}

func reportDiagnostics(diags []matdb.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
	}
}

func dumpCatalog(materials []*matdb.Material) {
	for _, m := range materials {
		blob, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			tracing.Errorf("cannot serialize material %q: %v", m.Name, err)
			matdb.Exit(exitInternalFault)
		}
		fmt.Println(string(blob))
	}
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <material>",
		Short: "Print one stored material as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(cmd, false)
			defer store.Close()
			m, err := catalog.New(store).Load(args[0])
			if err != nil {
				tracing.Errorf("%v", err)
				matdb.Exit(exitInputFailure)
			}
			dumpCatalog([]*matdb.Material{m})
		},
	}
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the names of all stored materials",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(cmd, false)
			defer store.Close()
			all, err := catalog.New(store).Names()
			if err != nil {
				tracing.Errorf("%v", err)
				matdb.Exit(exitInputFailure)
			}
			for _, name := range all {
				fmt.Println(name)
			}
		},
	}
}
