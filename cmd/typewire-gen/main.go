package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/typewire/go-typewire/debug"
	"github.com/typewire/go-typewire/gen"
	"github.com/typewire/go-typewire/parse"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommand("typewire-gen").
		WithSynopsis("typewire-gen [opts]").
		WithDescription("Compile a JSON schema and generate type declarations plus serialization code for it.").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			if err := run(cfg, cc, args); err != nil {
				if errors.Is(err, cli.ErrUsage) {
					return err
				}
				fail(err)
			}
			return nil
		})
}

type Config struct {
	Input        string `cli:"name=i desc='input schema file (default: standard input)'"`
	Output       string `cli:"name=o desc='output file for generated code (default: standard output)'"`
	Namespace    string `cli:"name=n desc='package (namespace) name for the generated code'"`
	Prefix       string `cli:"name=p desc='name prefix for generated union types'"`
	NoUnionAlias bool   `cli:"name=U desc='suppress per-field union alias types'"`
	DeclsOnly    bool   `cli:"name=decls desc='emit type declarations only, no serialization logic'"`
	Target       string `cli:"name=target desc='YAML target configuration file'"`
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}

	tgt := gen.GoTarget()
	if cfg.Target != "" {
		var err error
		tgt, err = gen.LoadTarget(cfg.Target)
		if err != nil {
			return err
		}
	}
	if cfg.Namespace != "" {
		tgt.Package = cfg.Namespace
	}
	switch {
	case cfg.Prefix != "":
		tgt.UnionPrefix = cfg.Prefix
	case cfg.Output != "":
		tgt.UnionPrefix = derivedPrefix(cfg.Output)
	}
	tgt.NoUnionAlias = tgt.NoUnionAlias || cfg.NoUnionAlias
	tgt.DeclsOnly = tgt.DeclsOnly || cfg.DeclsOnly

	var in io.Reader = os.Stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	root, err := parse.Compile(in)
	if err != nil {
		return err
	}
	if debug.Parse() {
		root.WriteDebug(os.Stderr)
	}

	// generate fully in memory so a failure leaves no partial output
	var buf bytes.Buffer
	if err := gen.Generate(&buf, root, tgt); err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(cfg.Output, buf.Bytes(), 0644)
}

// derivedPrefix seeds union type names with the output file's identity so
// generated names stay distinct when several schemas share a package.
func derivedPrefix(output string) string {
	base := filepath.Base(output)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	var b strings.Builder
	up := true
	for _, r := range base {
		switch {
		case r == '_' || r == '-':
			up = true
		case up:
			b.WriteString(strings.ToUpper(string(r)))
			up = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String() + "Union"
}

func fail(err error) {
	msg := fmt.Sprintf("typewire-gen: %v", err)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
