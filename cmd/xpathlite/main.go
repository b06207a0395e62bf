// Command xpathlite evaluates one XPath expression against an XML
// document and prints the resulting sequence, one item per line.
//
// Grounded on funxy's cmd/funxy main.go: the same
// read-from-file-or-stdin/flag-dispatch/os.Exit(1)-on-error shape,
// trimmed from funxy's module/test/compile/bytecode sub-commands down
// to the single job this engine's CLI has (spec.md §15: orchestration
// only, no REPL, no module system).
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/dialects"
	"github.com/funvibe/xpathlite/internal/kernel"
	"github.com/funvibe/xpathlite/internal/pipeline"
	"github.com/funvibe/xpathlite/internal/xdm"
	"github.com/funvibe/xpathlite/internal/xmlio"
)

// nsFlags collects repeated -ns prefix=uri flags into a
// kernel.NamespaceResolver.
type nsFlags map[string]string

func (n nsFlags) String() string { return "" }

func (n nsFlags) Set(value string) error {
	prefix, uri, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected prefix=uri, got %q", value)
	}
	n[prefix] = uri
	return nil
}

func (n nsFlags) resolver() kernel.NamespaceResolver {
	return func(prefix string) (string, bool) {
		uri, ok := n[prefix]
		return uri, ok
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func main() {
	var (
		exprFlag    string
		xmlPath     string
		versionFlag string
		compatMode  bool
		verbose     bool
		namespaces  = nsFlags{}
	)

	flag.StringVar(&exprFlag, "e", "", "XPath expression (reads from stdin if omitted)")
	flag.StringVar(&xmlPath, "xml", "", "path to the XML document to evaluate against (reads from stdin if omitted and -e is given)")
	flag.StringVar(&versionFlag, "version", "3.1", "XPath dialect: 1.0, 2.0, 3.0, or 3.1")
	flag.BoolVar(&compatMode, "compat", false, "enable XPath 1.0 compatibility-mode coercion")
	flag.BoolVar(&verbose, "v", false, "log parse/analyze/evaluate diagnostics to stderr")
	flag.Var(&namespaces, "ns", "namespace binding prefix=uri (repeatable)")
	flag.Parse()

	logger := newLogger(verbose)

	version := dialects.Version(versionFlag)
	if !dialects.Recognized(version) {
		fmt.Fprintf(os.Stderr, "xpathlite: unrecognized -version %q (want 1.0, 2.0, 3.0, or 3.1)\n", versionFlag)
		os.Exit(2)
	}

	expr, root, err := readInputs(exprFlag, xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xpathlite: %s\n", err)
		os.Exit(1)
	}
	logger.Debug("loaded input", "version", version, "exprLen", len(expr))

	req := pipeline.Request{
		Source:     expr,
		Version:    version,
		Namespaces: namespaces.resolver(),
		Root:       root,
		Options:    context.Options{CompatibilityMode: compatMode},
	}

	res := pipeline.Run(req)
	for _, diag := range res.Diagnostics {
		logger.Error("evaluation failed", "error", diag)
		fmt.Fprintf(os.Stderr, "xpathlite: %s\n", diag)
	}
	if len(res.Diagnostics) > 0 {
		os.Exit(1)
	}

	printSequence(res.Value)
}

// readInputs resolves the expression and XML document from flags and
// falls back to stdin exactly once, mirroring funxy's
// readInputFromArgs ("pipe from stdin when no positional file is
// given") but split across the two inputs this engine needs instead
// of the one source file funxy reads.
func readInputs(exprFlag, xmlPath string) (expr string, root adapter.Node, err error) {
	needStdinExpr := exprFlag == ""
	needStdinXML := xmlPath == ""

	if needStdinExpr && needStdinXML {
		return "", nil, fmt.Errorf("at least one of -e or -xml must read from a file; both cannot read stdin")
	}

	expr = exprFlag
	if needStdinExpr {
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return "", nil, fmt.Errorf("reading expression from stdin: %w", rerr)
		}
		expr = string(data)
	}

	var xmlReader io.Reader
	if needStdinXML {
		xmlReader = os.Stdin
	} else {
		f, oerr := os.Open(xmlPath)
		if oerr != nil {
			return "", nil, fmt.Errorf("opening %s: %w", xmlPath, oerr)
		}
		defer f.Close()
		xmlReader = f
	}

	docRoot, lerr := xmlio.Load(xmlReader)
	if lerr != nil {
		return "", nil, fmt.Errorf("loading XML: %w", lerr)
	}
	return strings.TrimSpace(expr), docRoot, nil
}

func printSequence(seq xdm.Sequence) {
	for _, item := range seq {
		switch v := item.(type) {
		case xdm.Atomic:
			fmt.Println(v.String())
		case xdm.NodeItem:
			fmt.Println(v.Node.StringValue())
		default:
			fmt.Printf("%v\n", v)
		}
	}
}
