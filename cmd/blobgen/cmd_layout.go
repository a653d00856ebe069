package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

var (
	layoutTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	layoutHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#87CEEB"))

	layoutFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#98FB98"))

	layoutPadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type cmdLayout struct {
	schemaPath string
	typeName   string
}

func (c *cmdLayout) help() *commandHelp {
	return &commandHelp{
		usage:   "layout --schema FILE --type NAME",
		summary: "Print the resolved binary layout of one type",
	}
}

func (c *cmdLayout) flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.schemaPath, "schema", "", "path to the JSON schema document")
	flags.StringVar(&c.typeName, "type", "", "type to resolve")
}

func (c *cmdLayout) run(ctx context.Context, argv []string) int {
	if c.schemaPath == "" || c.typeName == "" {
		fmt.Fprintln(os.Stderr, "layout: --schema and --type are required")
		return 1
	}

	reg, _, err := loadSchema(c.schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "layout: %v\n", err)
		return 1
	}

	calc := layout.NewCalculator(reg)
	t, err := reg.Type(c.typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "layout: %v\n", err)
		return 1
	}
	desc, err := calc.Resolve(t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "layout: %v\n", err)
		return 1
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Println(renderLayout(calc, t, desc, styled))
	return 0
}

// renderLayout formats a layout table, marking padding gaps between fields.
func renderLayout(calc *layout.Calculator, t *schema.Type, desc layout.Descriptor, styled bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(layoutTitleStyle, t.Name()))
	fmt.Fprintf(&b, "  %d bytes, align %d\n\n", desc.Size, desc.Align)
	b.WriteString(style(layoutHeaderStyle, fmt.Sprintf("%-8s %-16s %-12s %6s\n", "offset", "field", "type", "size")))

	cursor := uint32(0)
	for _, f := range t.Fields() {
		off := desc.FieldOffs[f.Name]
		if off > cursor {
			b.WriteString(style(layoutPadStyle, fmt.Sprintf("%-8d %-16s %-12s %6d\n", cursor, "(padding)", "", off-cursor)))
		}
		size, _, err := calc.FieldLayout(f)
		if err != nil {
			continue
		}
		b.WriteString(style(layoutFieldStyle, fmt.Sprintf("%-8d %-16s %-12s %6d\n", off, f.Name, f.Ref.String()+arraySuffix(f), size)))
		cursor = off + size
	}
	if desc.Size > cursor {
		b.WriteString(style(layoutPadStyle, fmt.Sprintf("%-8d %-16s %-12s %6d\n", cursor, "(padding)", "", desc.Size-cursor)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func arraySuffix(f schema.Field) string {
	if f.IsArray() {
		return fmt.Sprintf("[%d]", f.Len)
	}
	return ""
}
