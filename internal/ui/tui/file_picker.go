package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/rcstrings/internal/model"
)

// FilePickerAction represents the action taken in the file picker.
type FilePickerAction int

const (
	// FilePickerActionNone means no file was chosen (user quit).
	FilePickerActionNone FilePickerAction = iota
	// FilePickerActionSelect means the user chose a file.
	FilePickerActionSelect
)

// FilePickerResult contains the result of the file picker TUI interaction.
type FilePickerResult struct {
	Action FilePickerAction
	File   model.ResourceFile
}

type filePickerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultFilePickerKeyMap() filePickerKeyMap {
	return filePickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FilePickerModel is the BubbleTea model for choosing the resource script
// that add and edit operate on.
type FilePickerModel struct {
	table     table.Model
	files     []model.ResourceFile
	filtered  []model.ResourceFile
	current   string
	keys      filePickerKeyMap
	result    FilePickerResult
	filter    string
	filtering bool
	showHelp  bool
	quitting  bool
}

var filePickerStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Status      lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
}

// NewFilePickerModel creates a picker over files. current is the path of
// the previously selected file; the cursor starts on it when present.
func NewFilePickerModel(files []model.ResourceFile, current string) FilePickerModel {
	columns := []table.Column{
		{Title: "", Width: 1},
		{Title: "Project", Width: 20},
		{Title: "Script", Width: 44},
		{Title: "Header", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(filesToRows(files, current)),
		table.WithFocused(true),
		table.WithHeight(min(max(len(files), 3), 15)),
	)
	t.SetStyles(tableStyles())

	m := FilePickerModel{
		table:    t,
		files:    files,
		filtered: files,
		current:  current,
		keys:     defaultFilePickerKeyMap(),
	}
	for i, f := range files {
		if f.Path() == current {
			m.table.SetCursor(i)
			break
		}
	}
	return m
}

func filesToRows(files []model.ResourceFile, current string) []table.Row {
	rows := make([]table.Row, len(files))
	for i, f := range files {
		mark := ""
		if f.Path() == current {
			mark = "*"
		}
		headerName := "-"
		if f.HeaderPath() != "" {
			headerName = filepath.Base(f.HeaderPath())
		}
		rows[i] = table.Row{
			mark,
			truncateText(f.ProjectName(), 20),
			truncatePath(f.Path(), 44),
			truncateText(headerName, 16),
		}
	}
	return rows
}

// Init implements tea.Model.
func (m FilePickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m FilePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-8, 3))

	case tea.KeyMsg:
		if m.filtering {
			m.updateFilter(msg)
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if f, ok := m.selected(); ok {
				m.result = FilePickerResult{Action: FilePickerActionSelect, File: f}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *FilePickerModel) updateFilter(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter":
		m.filtering = false
	case "esc":
		m.filter = ""
		m.filtering = false
		m.applyFilter()
	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.applyFilter()
		}
	}
}

func (m *FilePickerModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.files
	} else {
		var filtered []model.ResourceFile
		lowerFilter := strings.ToLower(m.filter)
		for _, f := range m.files {
			if strings.Contains(strings.ToLower(f.Path()), lowerFilter) ||
				strings.Contains(strings.ToLower(f.ProjectName()), lowerFilter) {
				filtered = append(filtered, f)
			}
		}
		m.filtered = filtered
	}
	m.table.SetRows(filesToRows(m.filtered, m.current))
	m.table.SetCursor(0)
}

func (m FilePickerModel) selected() (model.ResourceFile, bool) {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor], true
	}
	return model.ResourceFile{}, false
}

// View implements tea.Model.
func (m FilePickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(filePickerStyles.Title.Render("Select a resource script"))
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		filterVal := filePickerStyles.FilterInput.Render(m.filter)
		if m.filtering {
			filterVal += "█"
		}
		b.WriteString(filePickerStyles.Filter.Render("Filter: ") + filterVal + "\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	status := fmt.Sprintf("%d script(s)", len(m.filtered))
	if m.filter != "" {
		status = fmt.Sprintf("%d of %d script(s) (filtered)", len(m.filtered), len(m.files))
	}
	b.WriteString(filePickerStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m FilePickerModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter select",
		"/ filter",
		"? help",
		"q quit",
	}
	return filePickerStyles.Help.Render(strings.Join(keys, " • "))
}

func (m FilePickerModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down

Actions:
  Enter    Use the highlighted script

Filter:
  /        Filter by path or project
  Esc      Clear filter
  Enter    Finish filtering

General:
  ?        Toggle full help
  q        Quit`
	return filePickerStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m FilePickerModel) Result() FilePickerResult {
	return m.result
}

// RunFilePicker runs the interactive file picker and returns the result.
func RunFilePicker(files []model.ResourceFile, current string) (FilePickerResult, error) {
	if len(files) == 0 {
		return FilePickerResult{}, nil
	}

	finalModel, err := tea.NewProgram(NewFilePickerModel(files, current)).Run()
	if err != nil {
		return FilePickerResult{}, err
	}

	if m, ok := finalModel.(FilePickerModel); ok {
		return m.Result(), nil
	}

	return FilePickerResult{}, nil
}
