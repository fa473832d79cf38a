package cli

import (
	"path/filepath"
	"strings"

	"github.com/cfdkit/matdb"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// matdb understands the following configuration keys, from config files
// (NestedText format, application key 'MATDB') or command-line flags:
//
//	db          path of the material database (--db)
//	lang        display-name language (--lang)
//	logfile     log destination, "stderr" or a file name (--logfile)
//	trace.*     trace levels per key (matdb, matdb.grammar, …)
//
// Flags win over config files.

// loadConfig is a callback function used by cobra's initialization mechanism.
// Unfortunately we're not allowed a return value.
func loadConfig() {
	k := koanf.New(".") // '.' is hierarchy delimiter
	konf := koanfadapter.New(k, "MATDB", []string{"nt"})
	konf.InitDefaults()
	setDefaults(konf)
	flags := posflag.Provider(rootCmd.PersistentFlags(), ".", konf.Koanf())
	if err := konf.Koanf().Load(flags, nil); err != nil {
		tracing.Errorf(err.Error())
		matdb.Exit(1)
	}
	if err := initTracing(konf); err != nil {
		tracing.Errorf(err.Error())
		matdb.Exit(1)
	}
	matdb.Configuration = k // push the configuration to app-global scope
}

// setDefaults fills in what a batch run needs when no config file says
// otherwise.
func setDefaults(konf *koanfadapter.KConf) {
	konf.Set("tracing.adapter", "go") // use Go builtin logging facilities
	if konf.GetString("db") == "" {
		konf.Set("db", "materials.db")
	}
}

// initTracing routes all tracers through schuko's trace2go, honoring the
// configured destination and per-key trace levels.
func initTracing(konf *koanfadapter.KConf) error {
	if dest := traceDestination(konf); dest != "" {
		konf.Set("tracing.destination", dest)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// traceDestination turns the logfile setting into a destination URL.
// "stderr" (the default) keeps log output on the terminal; URLs pass
// through; a bare file name lands in the user's log directory.
func traceDestination(konf *koanfadapter.KConf) string {
	logname := konf.GetString("logfile")
	if logname == "" || logname == "stderr" {
		return ""
	}
	if strings.Contains(logname, ":/") { // already a URL
		return logname
	}
	if !filepath.IsAbs(logname) {
		logname = filepath.Join(newAppPaths("MATDB").LogDir(), logname)
	}
	return "file://" + logname
}
