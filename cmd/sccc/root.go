package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andaur/scc/internal/config"
	"github.com/andaur/scc/internal/dataflow"
	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/internal/driver"
	"github.com/andaur/scc/internal/frontend"
	"github.com/andaur/scc/internal/ir"
	"github.com/andaur/scc/internal/scclog"
	"github.com/andaur/scc/internal/symtab"
	"github.com/andaur/scc/pkg/ast"
)

var (
	// Flags
	outputPath string
	includes   []string
	noStdlib   bool
	optimize   bool
	eval       bool
	printAST   bool
	printST    bool
	printIR    bool
	printCFG   bool
	printDom   bool
	analyses   []string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "sccc [file]",
	Short: "Elaborate, instantiate and lower a SecreC module to IR",
	Long: `sccc is the front-end core of a SecreC compiler: it type-checks a
module, lazily instantiates its templates, lowers the result to three-address
IR, and runs dataflow analyses over it. Lexing and parsing are an external
collaborator of this core (see spec.md §1); until a real one is wired in,
sccc reports any real source file as not implemented and is driven instead
through the print/analysis flags against whatever a Frontend supplies.`,
	Version: "0.1.0",
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Write output to file [stdout]")
	flags.StringArrayVarP(&includes, "include", "I", nil, "Add a module search path (repeatable)")
	flags.BoolVar(&noStdlib, "no-stdlib", false, "Do not add the built-in standard-library path")
	flags.BoolVarP(&optimize, "optimize", "O", false, "Run optimization passes")
	flags.BoolVarP(&eval, "eval", "e", false, "After compilation, run the debug interpreter")
	flags.BoolVar(&printAST, "print-ast", false, "Print AST and exit")
	flags.BoolVar(&printST, "print-st", false, "Print symbol table and exit")
	flags.BoolVar(&printIR, "print-ir", false, "Print IR and exit")
	flags.BoolVar(&printCFG, "print-cfg", false, "Emit CFG in DOT format and exit")
	flags.BoolVar(&printDom, "print-dom", false, "Emit dominator tree in DOT format and exit")
	flags.StringArrayVarP(&analyses, "analysis", "a", nil, "Run the named dataflow analysis and print its result (repeatable)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose progress to stderr")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential stdout output")
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		return 1
	}
	return 0
}

// printInfo prints an info message to stdout unless quiet mode suppresses it.
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "sccc: "+format, args...)
}

// printVerbose prints a message to stderr if verbose mode is enabled.
func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// run implements the single-command CLI surface of spec.md §6: read a
// module (via a Frontend, since lexing/parsing is out of scope), run it
// through the compiler driver, then honor whichever print/analysis flags
// were requested.
func run(cmd *cobra.Command, args []string) error {
	scclog.Init(scclog.Options{Enabled: verbose})

	cfg, err := config.Load(config.FileName)
	if err != nil {
		return fmt.Errorf("reading %s: %w", config.FileName, err)
	}
	cfg = cfg.Merge(includes, noStdlib)
	printVerbose("include paths: %v (no-stdlib=%v)\n", cfg.IncludePaths, cfg.NoStdlib)

	path, src, err := readInput(args)
	if err != nil {
		return err
	}

	fe := frontend.Frontend(frontend.Stub{})
	mod, diags, err := fe.ParseModule(path, src)
	for _, d := range diags {
		printError("%s\n", d)
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	p := driver.NewPipeline()
	if err := p.Run(mod); err != nil {
		for _, d := range p.Log.All() {
			printError("%s\n", d)
		}
		return err
	}
	printInfo("compiled %q: %d procedure(s)\n", mod.Name, len(p.Program.Procedures))

	names := analyses
	if optimize && len(names) == 0 {
		names = cfg.DefaultOptimize
	}
	if len(names) > 0 {
		if err := p.Optimize(names); err != nil {
			printError("%v\n", err)
		}
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer f.Close()
		out = f
	}

	printRequestedViews(out, p, mod)
	if printAST || printST || printIR || printCFG || printDom {
		return nil
	}

	if eval {
		err := diag.ErrUnimplemented("debug interpreter")
		printError("%s\n", err)
		return err
	}
	return nil
}

// printRequestedViews honors each --print-* flag against the compiled
// pipeline state. Several are mutually meaningful to request together
// (e.g. --print-ir and --print-cfg), so none of them short-circuit the
// others.
func printRequestedViews(out io.Writer, p *driver.Pipeline, mod *ast.Module) {
	if printAST {
		ast.Dump(out, mod)
	}
	if printST {
		symtab.Print(out, p.Global)
	}
	if printIR {
		ir.Print(out, p.Program)
	}
	if printCFG {
		ir.PrintDOT(out, p.Program)
	}
	if printDom {
		if p.Dominators == nil {
			p.Dominators = dataflow.NewDominators()
			dataflow.NewDriver(p.Dominators).Run(p.Program)
		}
		p.Dominators.PrintDOT(out, p.Program)
	}
}

func readInput(args []string) (path string, src []byte, err error) {
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
		return args[0], src, err
	}
	src, err = io.ReadAll(os.Stdin)
	return "<stdin>", src, err
}
