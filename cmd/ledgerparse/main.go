// Command ledgerparse loads a ledger file, reports the directives it
// found, and prints any diagnostics the parser collected along the way.
// It owns no part of the core contract (parser.Parse never touches a
// filesystem or a terminal); it is a thin consumer of the public
// parser/builder/loader API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ledgerparse/ledgerparse/errors"
	"github.com/ledgerparse/ledgerparse/loader"
	"github.com/ledgerparse/ledgerparse/output"
	"github.com/ledgerparse/ledgerparse/telemetry"
)

var (
	// Version is set via ldflags when building.
	Version = ""
)

var cli struct {
	Version kong.VersionFlag `help:"Show version information."`

	File           string `arg:"" type:"existingfile" help:"Ledger file to parse."`
	FollowIncludes bool   `help:"Recursively load and merge included files." short:"i"`
	JSON           bool   `help:"Print diagnostics as JSON instead of text."`
	Timing         bool   `help:"Print a phase timing report to stderr."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Vars{"version": buildVersion()},
		kong.Name("ledgerparse"),
		kong.Description("Parse a plain-text ledger file and report its directives and diagnostics."),
		kong.UsageOnError(),
	)

	ctx.FatalIfErrorf(run())
}

func buildVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

func run() error {
	bgCtx := context.Background()
	var collector telemetry.Collector
	if cli.Timing {
		collector = telemetry.NewTimingCollector()
		bgCtx = telemetry.WithCollector(bgCtx, collector)
	}

	var opts []loader.Option
	if cli.FollowIncludes {
		opts = append(opts, loader.WithFollowIncludes())
	}

	result, err := loader.New(opts...).Load(bgCtx, cli.File)
	if err != nil {
		return err
	}

	styles := output.NewStyles(os.Stdout)
	printSummary(styles, result)

	if len(result.Diagnostics) > 0 {
		printDiagnostics(result)
	}

	if cli.Timing && collector != nil {
		timingStyles := output.NewStyles(os.Stderr)
		collector.Report(os.Stderr, timingStyles)
	}

	if len(result.Diagnostics) > 0 {
		return fmt.Errorf("%d diagnostic(s) reported", len(result.Diagnostics))
	}
	return nil
}

func isInteractive(w *os.File) bool {
	return term.IsTerminal(int(w.Fd()))
}

func printSummary(styles *output.Styles, result *loader.Result) {
	mark := "OK"
	if isInteractive(os.Stdout) {
		mark = "✓"
	}
	fmt.Printf("%s %s\n", styles.Success(mark), styles.FilePath(cli.File))
	fmt.Printf("  %d declaration(s) across %d file(s)\n", len(result.File.Declarations), len(result.Files))

	counts := make(map[string]int)
	for _, d := range result.File.Declarations {
		counts[d.Keyword()]++
	}
	for _, kw := range []string{"transaction", "open", "close", "pad", "check", "price", "event", "note", "document", "commodity"} {
		if n := counts[kw]; n > 0 {
			fmt.Printf("    %s %s: %d\n", styles.Dim("-"), styles.Keyword(kw), n)
		}
	}
}

func printDiagnostics(result *loader.Result) {
	if cli.JSON {
		jf := errors.NewJSONFormatter()
		fmt.Fprintln(os.Stderr, jf.FormatAll(result.Diagnostics))
		return
	}

	tf := errors.NewTextFormatter(os.Stderr)
	fmt.Fprintln(os.Stderr, tf.FormatAll(result.Diagnostics))
}
