// Command gpulayout prints std140 and std430 layouts of the structs in a
// YAML schema, or their GLSL and WGSL declarations.
//
//	gpulayout -rules both -format table scene.yaml
//	gpulayout -format wgsl -struct Scene -verify scene.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/gogpu/gpulayout"
	"github.com/gogpu/gpulayout/schema"
	"github.com/gogpu/gpulayout/shader"
)

var errUsage = errors.New("usage: gpulayout [flags] schema.yaml")

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("gpulayout: %v", err)
	}
}

type config struct {
	rules   []gpulayout.Rules
	format  string
	name    string
	verify  bool
	verbose bool
	path    string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("gpulayout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		rules   = fs.String("rules", "both", "rule set: std140, std430 or both")
		format  = fs.String("format", "table", "output: table, glsl or wgsl")
		name    = fs.String("struct", "", "only this struct (default: all)")
		verify  = fs.Bool("verify", false, "check layouts against the naga WGSL compiler")
		verbose = fs.Bool("v", false, "debug logging to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}

	cfg := &config{
		format:  *format,
		name:    *name,
		verify:  *verify,
		verbose: *verbose,
		path:    fs.Arg(0),
	}
	switch *rules {
	case "std140":
		cfg.rules = []gpulayout.Rules{gpulayout.Std140}
	case "std430":
		cfg.rules = []gpulayout.Rules{gpulayout.Std430}
	case "both":
		cfg.rules = []gpulayout.Rules{gpulayout.Std140, gpulayout.Std430}
	default:
		return nil, fmt.Errorf("unknown rule set %q", *rules)
	}
	switch cfg.format {
	case "table", "glsl", "wgsl":
	default:
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if cfg.verbose {
		gpulayout.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer gpulayout.SetLogger(nil)
	}

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		return err
	}
	sch, err := schema.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.path, err)
	}

	structs, err := selectStructs(sch, cfg.name, cfg.format != "table")
	if err != nil {
		return err
	}

	switch cfg.format {
	case "table":
		err = printTables(stdout, structs, cfg.rules)
	case "glsl":
		printGLSL(stdout, structs, cfg.rules)
	case "wgsl":
		err = printWGSL(stdout, structs, cfg.rules)
	}
	if err != nil {
		return err
	}

	if cfg.verify {
		return verify(stdout, structs, cfg.rules)
	}
	return nil
}

// selectStructs returns the named struct, or every struct. Declarations
// already include the structs they contain, so with rootsOnly only
// structs no other struct refers to are returned.
func selectStructs(sch *schema.Schema, name string, rootsOnly bool) ([]*gpulayout.Struct, error) {
	if name != "" {
		s, ok := sch.Struct(name)
		if !ok {
			return nil, fmt.Errorf("no struct %q in schema", name)
		}
		return []*gpulayout.Struct{s}, nil
	}

	all := sch.Structs()
	if !rootsOnly {
		return all, nil
	}
	referenced := make(map[*gpulayout.Struct]bool)
	for _, s := range all {
		for _, f := range s.Fields {
			if dep, ok := structOf(f.Type); ok {
				referenced[dep] = true
			}
		}
	}
	roots := all[:0]
	for _, s := range all {
		if !referenced[s] {
			roots = append(roots, s)
		}
	}
	return roots, nil
}

func structOf(t gpulayout.Type) (*gpulayout.Struct, bool) {
	for {
		switch tt := t.(type) {
		case gpulayout.Array:
			t = tt.Elem
		case gpulayout.DynamicOffset:
			t = tt.Inner
		case *gpulayout.Struct:
			return tt, true
		default:
			return nil, false
		}
	}
}

func printTables(w io.Writer, structs []*gpulayout.Struct, rules []gpulayout.Rules) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range structs {
		for _, r := range rules {
			l := s.Layout(r)
			fmt.Fprintf(tw, "%s (%s): size %d, align %d\n", s.Name, r, l.Size, l.Align)
			fmt.Fprintln(tw, "FIELD\tTYPE\tOFFSET\tSIZE\tALIGN\tPAD")
			for i, f := range l.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
					f.Name, spelling(s.Fields[i].Type), f.Offset, f.Size, f.Align, f.Padding)
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

func printGLSL(w io.Writer, structs []*gpulayout.Struct, rules []gpulayout.Rules) {
	for _, s := range structs {
		for _, r := range rules {
			kind := shader.BlockBuffer
			if r.MinArrayAlign >= 16 {
				kind = shader.BlockUniform
			}
			fmt.Fprintf(w, "// %s %s\n", s.Name, r)
			fmt.Fprintln(w, shader.GLSLBlock(s, r, kind, ""))
		}
	}
}

func printWGSL(w io.Writer, structs []*gpulayout.Struct, rules []gpulayout.Rules) error {
	for _, s := range structs {
		for _, r := range rules {
			src, err := shader.WGSL(s, r)
			if err != nil {
				return fmt.Errorf("%s under %s: %w", s.Name, r, err)
			}
			fmt.Fprintf(w, "// %s %s\n%s", s.Name, r, src)
		}
	}
	return nil
}

func verify(w io.Writer, structs []*gpulayout.Struct, rules []gpulayout.Rules) error {
	var errs []error
	for _, s := range structs {
		for _, r := range rules {
			err := shader.Verify(s, r)
			switch {
			case err == nil:
				fmt.Fprintf(w, "ok\t%s\t%s\n", s.Name, r)
			case errors.Is(err, shader.ErrInexpressible):
				fmt.Fprintf(w, "skip\t%s\t%s\t%v\n", s.Name, r, err)
			default:
				fmt.Fprintf(w, "FAIL\t%s\t%s\t%v\n", s.Name, r, err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// spelling renders t the way schemas spell it.
func spelling(t gpulayout.Type) string {
	var dims string
	for {
		a, ok := t.(gpulayout.Array)
		if !ok {
			break
		}
		dims += "[" + strconv.Itoa(a.Len) + "]"
		t = a.Elem
	}
	if d, ok := t.(gpulayout.DynamicOffset); ok {
		return "dynamic<" + spelling(d.Inner) + ">" + dims
	}
	return t.String() + dims
}
