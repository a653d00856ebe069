package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/blobforge/blobforge"
	"github.com/blobforge/blobforge/codegen"
)

type cmdGenerate struct {
	schemaPath string
	outDir     string
	baseName   string
	spaces     []string
	roots      []string
	prologue   string
	epilogue   string
}

func (c *cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate --schema FILE [--space QUALIFIER ...] [--root TYPE ...]",
		summary: "Generate C header/source artifacts for the schema's types",
	}
}

func (c *cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.schemaPath, "schema", "", "path to the JSON schema document")
	flags.StringVar(&c.outDir, "out", ".", "output directory")
	flags.StringVar(&c.baseName, "name", "blob_types", "artifact base name")
	flags.StringSliceVar(&c.spaces, "space", []string{"global"}, "address spaces to generate, one artifact pair each")
	flags.StringSliceVar(&c.roots, "root", nil, "root types (default: every declared type)")
	flags.StringVar(&c.prologue, "prologue", "", "file with verbatim text for the top of the header")
	flags.StringVar(&c.epilogue, "epilogue", "", "file with verbatim text for the bottom of the header")
}

func (c *cmdGenerate) run(ctx context.Context, argv []string) int {
	if c.schemaPath == "" {
		fmt.Fprintln(os.Stderr, "generate: --schema is required")
		return 1
	}

	reg, names, err := loadSchema(c.schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		return 1
	}

	roots := c.roots
	if len(roots) == 0 {
		roots = names
	}

	var opts []codegen.AssembleOption
	if c.prologue != "" {
		text, err := os.ReadFile(c.prologue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate: %v\n", err)
			return 1
		}
		opts = append(opts, codegen.WithPrologue(string(text)))
	}
	if c.epilogue != "" {
		text, err := os.ReadFile(c.epilogue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate: %v\n", err)
			return 1
		}
		opts = append(opts, codegen.WithEpilogue(string(text)))
	}

	sink := dirSink{dir: c.outDir}
	for _, raw := range c.spaces {
		space, ok := codegen.ParseSpace(raw)
		if !ok {
			fmt.Fprintf(os.Stderr, "generate: unknown address space %q\n", raw)
			return 1
		}

		artifact, err := codegen.Assemble(reg, roots, space, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate: %v\n", err)
			return 1
		}

		name := fmt.Sprintf("%s_%s", c.baseName, space.Tag())
		if err := sink.Write(name, artifact); err != nil {
			fmt.Fprintf(os.Stderr, "generate: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s.h and %s.cl (%d root types, %s)\n",
			filepath.Join(c.outDir, name), filepath.Join(c.outDir, name), len(roots), space)
	}
	return 0
}

// dirSink writes artifacts as <name>.h / <name>.cl file pairs in one
// directory.
type dirSink struct {
	dir string
}

var _ blobforge.ArtifactSink = dirSink{}

func (s dirSink) Write(name string, artifact blobforge.Artifact) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	header := filepath.Join(s.dir, name+".h")
	if err := os.WriteFile(header, []byte(artifact.Header), 0o644); err != nil {
		return err
	}
	source := filepath.Join(s.dir, name+".cl")
	return os.WriteFile(source, []byte(artifact.Source), 0o644)
}
