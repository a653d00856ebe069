package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/blobforge/blobforge/codegen"
	"github.com/blobforge/blobforge/layout"
	"github.com/blobforge/blobforge/schema"
)

var (
	inspectTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	inspectTypeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#98FB98"))

	inspectSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4"))

	inspectCodeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#87CEEB"))

	inspectErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))

	inspectHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))
)

type cmdInspect struct {
	schemaPath string
}

func (c *cmdInspect) help() *commandHelp {
	return &commandHelp{
		usage:   "inspect --schema FILE",
		summary: "Browse types, layouts, and generated code interactively",
	}
}

func (c *cmdInspect) flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.schemaPath, "schema", "", "path to the JSON schema document")
}

func (c *cmdInspect) run(ctx context.Context, argv []string) int {
	if c.schemaPath == "" {
		fmt.Fprintln(os.Stderr, "inspect: --schema is required")
		return 1
	}
	p := tea.NewProgram(newInspectModel(c.schemaPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		return 1
	}
	return 0
}

type inspectState int

const (
	stateSelectType inspectState = iota
	stateShowDetail
)

type inspectModel struct {
	err        error
	schemaPath string
	reg        *schema.Registry
	calc       *layout.Calculator
	names      []string
	filtered   []string
	filter     textinput.Model
	selected   int
	space      codegen.Space
	detail     string
	state      inspectState
}

func newInspectModel(schemaPath string) *inspectModel {
	filter := textinput.New()
	filter.Placeholder = "filter types"
	filter.Prompt = "/ "
	filter.Width = 30
	filter.Focus()

	return &inspectModel{
		schemaPath: schemaPath,
		filter:     filter,
		space:      codegen.SpaceGlobal,
		state:      stateSelectType,
	}
}

type schemaLoadedMsg struct {
	err   error
	reg   *schema.Registry
	names []string
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadSchema
}

func (m *inspectModel) loadSchema() tea.Msg {
	reg, names, err := loadSchema(m.schemaPath)
	if err != nil {
		return schemaLoadedMsg{err: err}
	}
	return schemaLoadedMsg{reg: reg, names: names}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectType && m.filter.Value() == "" {
				return m, tea.Quit
			}

		case "up", "ctrl+p":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "ctrl+n":
			if m.state == stateSelectType && m.selected < len(m.filtered)-1 {
				m.selected++
			}

		case "tab":
			m.cycleSpace()
			if m.state == stateShowDetail {
				m.buildDetail()
			}

		case "enter":
			if m.state == stateSelectType && len(m.filtered) > 0 {
				m.buildDetail()
				m.state = stateShowDetail
			}

		case "esc":
			if m.state == stateShowDetail {
				m.state = stateSelectType
				m.detail = ""
			}
		}

	case schemaLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reg = msg.reg
		m.calc = layout.NewCalculator(msg.reg)
		m.names = msg.names
		m.filtered = msg.names
	}

	if m.state == stateSelectType {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) cycleSpace() {
	spaces := codegen.Spaces()
	for i, space := range spaces {
		if space == m.space {
			m.space = spaces[(i+1)%len(spaces)]
			return
		}
	}
}

func (m *inspectModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		m.filtered = m.names
	} else {
		m.filtered = nil
		for _, name := range m.names {
			if strings.Contains(strings.ToLower(name), needle) {
				m.filtered = append(m.filtered, name)
			}
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

func (m *inspectModel) buildDetail() {
	name := m.filtered[m.selected]
	t, err := m.reg.Type(name)
	if err != nil {
		m.detail = inspectErrorStyle.Render(err.Error())
		return
	}
	desc, err := m.calc.Resolve(t)
	if err != nil {
		m.detail = inspectErrorStyle.Render(err.Error())
		return
	}
	code, err := codegen.NewGeneratorWithCalculator(m.reg, m.calc).Generate(t, m.space)
	if err != nil {
		m.detail = inspectErrorStyle.Render(err.Error())
		return
	}

	var b strings.Builder
	b.WriteString(renderLayout(m.calc, t, desc, true))
	b.WriteString("\n\n")
	b.WriteString(inspectCodeStyle.Render(code.Struct))
	b.WriteString("\n\n")
	b.WriteString(inspectCodeStyle.Render(code.Sizeof))
	b.WriteString("\n")
	b.WriteString(inspectCodeStyle.Render(code.Init.Decl))
	b.WriteString("\n")
	b.WriteString(inspectCodeStyle.Render(code.Serialize.Decl))
	b.WriteString("\n")
	b.WriteString(inspectCodeStyle.Render(code.Deserialize.Decl))
	m.detail = b.String()
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return inspectErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if m.reg == nil {
		return "Loading schema..."
	}

	var b strings.Builder
	b.WriteString(inspectTitleStyle.Render("blobforge inspect"))
	b.WriteString(" ")
	b.WriteString(m.schemaPath)
	b.WriteString("  [")
	b.WriteString(string(m.space))
	b.WriteString("]\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, name := range m.filtered {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(inspectSelectedStyle.Render(cursor + name))
			} else {
				b.WriteString(cursor + inspectTypeStyle.Render(name))
			}
			b.WriteString("\n")
		}
		if len(m.filtered) == 0 {
			b.WriteString(inspectHelpStyle.Render("  no matching types"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(inspectHelpStyle.Render("↑/↓ select • enter details • tab space • ctrl+c quit"))

	case stateShowDetail:
		b.WriteString(m.detail)
		b.WriteString("\n\n")
		b.WriteString(inspectHelpStyle.Render("tab space • esc back • ctrl+c quit"))
	}

	return b.String()
}
