package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Phonebooth/duckling/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C79A00")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLimit = 20

type shellModel struct {
	bridge  *bridge.Bridge
	conn    uint64
	path    string
	version string
	input   textinput.Model
	history []string
}

func newShellModel(b *bridge.Bridge, conn uint64, path, version string) *shellModel {
	ti := textinput.New()
	ti.Placeholder = "SELECT ..."
	ti.Prompt = "sql> "
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 100

	return &shellModel{
		bridge:  b,
		conn:    conn,
		path:    path,
		version: version,
		input:   ti,
	}
}

func (m *shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			sql := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if sql == "" {
				return m, nil
			}
			if sql == "quit" || sql == "exit" {
				return m, tea.Quit
			}
			m.push("sql> " + sql)
			m.execute(sql)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *shellModel) execute(sql string) {
	ctx := context.Background()

	cur, err := m.bridge.Query(ctx, m.conn, sql, nil)
	if err != nil {
		m.push(errorStyle.Render(err.Error()))
		return
	}
	defer m.bridge.CloseCursor(ctx, cur)

	cols, _ := m.bridge.ColumnNames(ctx, cur)
	rows, err := m.bridge.FetchAll(ctx, cur)
	if err != nil {
		m.push(errorStyle.Render(err.Error()))
		return
	}

	if len(cols) > 0 {
		m.push(columnStyle.Render(strings.Join(cols, " | ")))
	}
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = fmt.Sprintf("%v", v)
		}
		m.push(resultStyle.Render(strings.Join(parts, " | ")))
	}
	m.push(helpStyle.Render(fmt.Sprintf("(%d rows)", len(rows))))
}

func (m *shellModel) push(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m *shellModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("duckling | %s (%s)", m.path, m.version)))
	b.WriteString("\n\n")
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: run · quit/exit: leave · ctrl+c: abort"))
	b.WriteByte('\n')
	return b.String()
}

func runInteractive(path string, settings bridge.Settings, validation bridge.ValidationMode) error {
	ctx := context.Background()

	b := bridge.NewWithConfig(&bridge.Config{Validation: validation})
	if err := b.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	conn, err := b.Open(ctx, path, settings)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer b.Close(ctx, conn)

	model := newShellModel(b, conn, path, b.LibraryVersion(ctx, conn))
	_, err = tea.NewProgram(model).Run()
	return err
}
