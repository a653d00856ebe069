package codegen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blobforge/blobforge"
	"github.com/blobforge/blobforge/errors"
	"github.com/blobforge/blobforge/schema"
)

type assembleConfig struct {
	prologue string
	epilogue string
}

// AssembleOption adjusts artifact assembly.
type AssembleOption func(*assembleConfig)

// WithPrologue inserts verbatim text into the header after the banner,
// before the generated declarations.
func WithPrologue(text string) AssembleOption {
	return func(c *assembleConfig) { c.prologue = text }
}

// WithEpilogue appends verbatim text to the header after the generated
// declarations, inside the include guard.
func WithEpilogue(text string) AssembleOption {
	return func(c *assembleConfig) { c.epilogue = text }
}

const banner = "/* generated by blobforge; do not edit */"

// Assemble plans the dependency closure of the requested root types,
// generates every fragment in plan order, and concatenates them into one
// header and one source artifact for the given address space.
//
// Assembly is all or nothing: any planning, layout, or generation error
// returns before any artifact text is produced.
func Assemble(reg *schema.Registry, roots []string, space Space, opts ...AssembleOption) (blobforge.Artifact, error) {
	if len(roots) == 0 {
		return blobforge.Artifact{}, errors.EmptyRootSet()
	}
	if !space.Valid() {
		return blobforge.Artifact{}, errors.InvalidInput(errors.PhaseGenerate,
			fmt.Sprintf("unknown address space %q", string(space)))
	}

	var cfg assembleConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Roots may name enums directly; they carry no dependencies, so they
	// peel off before planning.
	typeRoots := make([]string, 0, len(roots))
	enumSeen := make(map[string]bool)
	var enumNames []string
	for _, root := range roots {
		if _, err := reg.Enum(root); err == nil {
			if !enumSeen[root] {
				enumSeen[root] = true
				enumNames = append(enumNames, root)
			}
			continue
		}
		typeRoots = append(typeRoots, root)
	}

	plan, err := reg.Plan(typeRoots)
	if err != nil {
		return blobforge.Artifact{}, err
	}

	// Enums referenced by planned types join in first-use order.
	for _, t := range plan {
		for _, f := range t.Fields() {
			dep := f.Ref.TypeName()
			if dep == "" || enumSeen[dep] {
				continue
			}
			if _, err := reg.Enum(dep); err == nil {
				enumSeen[dep] = true
				enumNames = append(enumNames, dep)
			}
		}
	}

	gen := NewGenerator(reg)

	enumDefs := make([]string, 0, len(enumNames))
	for _, name := range enumNames {
		en, err := reg.Enum(name)
		if err != nil {
			return blobforge.Artifact{}, err
		}
		def, err := gen.GenerateEnum(en, space)
		if err != nil {
			return blobforge.Artifact{}, err
		}
		enumDefs = append(enumDefs, def)
	}

	codes := make([]*TypeCode, 0, len(plan))
	for _, t := range plan {
		code, err := gen.Generate(t, space)
		if err != nil {
			return blobforge.Artifact{}, err
		}
		codes = append(codes, code)
	}

	Logger().Debug("assembling artifact",
		zap.Strings("roots", roots),
		zap.String("space", string(space)),
		zap.Int("types", len(codes)),
		zap.Int("enums", len(enumDefs)))

	guard := guardName(roots, space)

	var header strings.Builder
	fmt.Fprintf(&header, "#ifndef %s\n#define %s\n\n", guard, guard)
	header.WriteString(banner)
	if cfg.prologue != "" {
		header.WriteString("\n\n")
		header.WriteString(strings.TrimSpace(cfg.prologue))
	}
	for _, def := range enumDefs {
		header.WriteString("\n\n")
		header.WriteString(def)
	}
	for _, code := range codes {
		header.WriteString("\n\n")
		header.WriteString(code.Struct)
		header.WriteString("\n\n")
		header.WriteString(code.Sizeof)
		header.WriteString("\n\n")
		header.WriteString(code.Init.Decl)
		header.WriteString("\n")
		header.WriteString(code.Serialize.Decl)
		header.WriteString("\n")
		header.WriteString(code.Deserialize.Decl)
	}
	if cfg.epilogue != "" {
		header.WriteString("\n\n")
		header.WriteString(strings.TrimSpace(cfg.epilogue))
	}
	fmt.Fprintf(&header, "\n\n#endif /* %s */\n", guard)

	var source strings.Builder
	source.WriteString(banner)
	for _, code := range codes {
		source.WriteString("\n\n")
		source.WriteString(code.Init.Def)
		source.WriteString("\n\n")
		source.WriteString(code.Serialize.Def)
		source.WriteString("\n\n")
		source.WriteString(code.Deserialize.Def)
	}
	source.WriteString("\n")

	return blobforge.Artifact{Header: header.String(), Source: source.String()}, nil
}

// guardName derives the header include guard from the roots and the space.
func guardName(roots []string, space Space) string {
	parts := make([]string, 0, len(roots)+2)
	parts = append(parts, "BLOBFORGE")
	for _, root := range roots {
		parts = append(parts, strings.ToUpper(CamelToSnake(root)))
	}
	parts = append(parts, strings.ToUpper(space.Suffix()), "H")
	return strings.Join(parts, "_")
}
