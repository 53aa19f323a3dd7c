package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli"

	minecode "go.minecode.dev/pkg"
)

var (
	errorNoColor bool
	debugShowAST bool
	traceRun     bool
	configPath   string
)

func readSourceFiles(args []string) (files []*minecode.SourceFile) {
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			fmt.Printf("could not find '%s'\n", arg)
			continue
		}

		if ext := path.Ext(abs); ext != ".mc" && ext != ".minecode" {
			fmt.Printf("could not use '%s' with extension '%s'\n", abs, ext)
			continue
		}

		buf, err := os.ReadFile(abs)
		if err != nil {
			fmt.Println(err.Error())
			continue
		}

		files = append(files, minecode.NewSourceFile(abs, string(buf)))
	}

	return files
}

// loadCompiler merges the config file, if any, with the command line flags.
func loadCompiler(c *cli.Context) (*minecode.Compiler, error) {
	cfg := minecode.DefaultConfig()
	if configPath != "" {
		loaded, err := minecode.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if errorNoColor {
		cfg.Color = false
	}
	if traceRun {
		cfg.Trace = true
	}
	cfg.Breakpoints = append(cfg.Breakpoints, c.IntSlice("break")...)

	comp := minecode.NewCompiler(cfg)
	if cfg.Trace {
		comp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	return comp, nil
}

// digestFile runs the front end on file and prints its diagnostics. It
// returns nil when the file had errors.
func digestFile(c *minecode.Compiler, file *minecode.SourceFile) *minecode.Program {
	prog, diags := c.CompileFromReader(file.Filename, strings.NewReader(file.Contents))

	if len(diags) > 0 {
		fmt.Printf("# %s\n", file.Filename)
		for _, d := range diags {
			fmt.Println(d.Make(file, c.Config().Color))
		}

		return nil
	}

	if debugShowAST {
		fmt.Println("#######################")
		fmt.Println("##        AST        ##")
		fmt.Println("#######################")
		fmt.Println()
		fmt.Println(minecode.StringifyAST(prog))
		fmt.Println()
	}

	return prog
}

func runFile(c *minecode.Compiler, file *minecode.SourceFile) {
	prog := digestFile(c, file)
	if prog == nil {
		return
	}

	in := c.NewInterpreter(minecode.WithOutput(os.Stdout))
	// Nobody resumes a plain run, only the debug command may pause
	in.SetDebugMode(false)

	if _, err := in.Interpret(prog); err != nil {
		fmt.Printf("# %s\nruntime error: %s\n", file.Filename, err)
	}
}

type debugEvent struct {
	line      int
	variables map[string]minecode.Value
}

// debugFile runs file on its own goroutine and hands control back to the
// terminal every time a breakpoint is hit.
func debugFile(c *minecode.Compiler, file *minecode.SourceFile) {
	prog := digestFile(c, file)
	if prog == nil {
		return
	}

	events := make(chan debugEvent)
	listener := minecode.ListenerFuncs{
		BreakpointHit: func(line int, variables map[string]minecode.Value) {
			events <- debugEvent{line: line, variables: variables}
		},
	}

	in := c.NewInterpreter(
		minecode.WithOutput(os.Stdout),
		minecode.WithDebugListener(listener),
	)

	done := make(chan error, 1)
	go func() {
		_, err := in.Interpret(prog)
		done <- err
	}()

	stdin := bufio.NewReader(os.Stdin)
	for {
		select {
		case ev := <-events:
			fmt.Printf("-- paused at line %d\n", ev.line)
			printVariables(ev.variables)
			fmt.Print("-- press enter to continue ")
			if _, err := stdin.ReadString('\n'); err != nil {
				// Without a terminal there is nobody to wait for
				in.Debugger().SetEnabled(false)
			}
			in.ResumeExecution()
		case err := <-done:
			if err != nil {
				fmt.Printf("# %s\nruntime error: %s\n", file.Filename, err)
			}
			return
		}
	}
}

func printVariables(variables map[string]minecode.Value) {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := variables[name]
		fmt.Printf("   %s (%s) = %s\n", name, v.Kind, v)
	}
}

func printTokens(file *minecode.SourceFile) {
	fmt.Printf("# %s\n", file.Filename)
	for _, tok := range minecode.Scan(file.Contents) {
		fmt.Printf("%4d  %-16s %q\n", tok.Line, tok.Typ, tok.Value)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "minecode"
	app.Usage = "a block-themed scripting language"

	noColorFlag := cli.BoolFlag{
		Name:        "no-color",
		Usage:       "hide colors in error messages",
		Destination: &errorNoColor,
	}

	debugAstFlag := cli.BoolFlag{
		Name:        "debug-ast",
		Usage:       "show a basic representation of the abstract-syntax-tree",
		Destination: &debugShowAST,
	}

	traceFlag := cli.BoolFlag{
		Name:        "trace",
		Usage:       "log pipeline and interpreter events to stderr",
		Destination: &traceRun,
	}

	configFlag := cli.StringFlag{
		Name:        "config",
		Usage:       "load settings from a YAML `FILE`",
		Destination: &configPath,
	}

	breakFlag := cli.IntSliceFlag{
		Name:  "break, b",
		Usage: "pause before the statement on `LINE`, may be repeated",
	}

	withCompiler := func(fn func(*minecode.Compiler, *minecode.SourceFile)) cli.ActionFunc {
		return func(c *cli.Context) error {
			comp, err := loadCompiler(c)
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}

			for _, f := range readSourceFiles(c.Args()) {
				fn(comp, f)
			}

			return nil
		}
	}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Interpret file(s) and output any results",
			Flags:   []cli.Flag{noColorFlag, debugAstFlag, traceFlag, configFlag},
			Action:  withCompiler(runFile),
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Report lexical, syntax and semantic errors in file(s) without executing",
			Flags:   []cli.Flag{noColorFlag, debugAstFlag, configFlag},
			Action: withCompiler(func(c *minecode.Compiler, f *minecode.SourceFile) {
				digestFile(c, f)
			}),
		},
		{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Interpret file(s), pausing at every breakpoint",
			Flags:   []cli.Flag{noColorFlag, traceFlag, configFlag, breakFlag},
			Action:  withCompiler(debugFile),
		},
		{
			Name:  "tokens",
			Usage: "Print the token stream of file(s)",
			Action: func(c *cli.Context) error {
				for _, f := range readSourceFiles(c.Args()) {
					printTokens(f)
				}

				return nil
			},
		},
		{
			Name:  "ast",
			Usage: "Print the abstract-syntax-tree of file(s)",
			Flags: []cli.Flag{noColorFlag},
			Action: func(c *cli.Context) error {
				debugShowAST = true
				return withCompiler(func(c *minecode.Compiler, f *minecode.SourceFile) {
					digestFile(c, f)
				})(c)
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
