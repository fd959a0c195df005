package tui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/todo-tui/internal/task"
)

// confirmAction is the destructive operation waiting for a yes/no
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmClear
)

// Model represents the main application state
type Model struct {
	store    *task.Store
	tasks    []task.Task
	selected int
	width    int
	height   int

	// Add mode
	addMode     bool
	input       textinput.Model
	priorityIdx int

	// Confirmation mode for delete and clear completed
	confirmMode bool
	confirm     confirmAction
	confirmID   task.ID

	// Blocking notice for validation and selection problems
	notice string

	// Persistence failure; the list itself is still consistent
	err error
}

// Column widths, excluding the task description which takes the rest
const (
	priorityWidth = 10
	dateWidth     = 12
	statusWidth   = 11
)

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// New creates a new application model around an open store. priority is
// preselected in the add form.
func New(store *task.Store, priority task.Priority) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Width = 40
	ti.CharLimit = 200
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	return &Model{
		store:       store,
		tasks:       store.Tasks(),
		input:       ti,
		priorityIdx: priorityIndex(priority),
	}
}

func priorityIndex(p task.Priority) int {
	for i, candidate := range task.Priorities {
		if candidate == p {
			return i
		}
	}
	return priorityIndex(task.Medium)
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.input.Width = min(60, m.width-20)
		}
		return m, nil

	case tea.KeyMsg:
		// Notices block until any key is pressed
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}

		if m.err != nil {
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.err = nil
			return m, nil
		}

		if m.confirmMode {
			confirmed := msg.String() == "y" || msg.String() == "Y"
			m.runConfirmed(confirmed)
			m.confirmMode = false
			m.confirm = confirmNone
			m.confirmID = 0
			return m, nil
		}

		if m.addMode {
			return m.updateAddMode(msg)
		}

		return m.updateNormalMode(msg)
	}

	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.addMode = false
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case "tab":
		m.priorityIdx = (m.priorityIdx + 1) % len(task.Priorities)
		return m, nil

	case "shift+tab":
		m.priorityIdx = (m.priorityIdx + len(task.Priorities) - 1) % len(task.Priorities)
		return m, nil

	case "enter":
		priority := task.Priorities[m.priorityIdx]
		if _, err := m.store.Add(m.input.Value(), priority); err != nil {
			m.handleError(err)
			return m, nil
		}
		// Stay in add mode with a cleared input for the next task
		m.input.Reset()
		m.reload()
		m.selected = len(m.tasks) - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		m.selected = m.ensureValidSelection(len(m.tasks) - 1)

	case "a":
		m.addMode = true
		m.input.Reset()
		return m, tea.Batch(m.input.Focus(), textinput.Blink)

	case "c", " ":
		if err := m.store.MarkComplete(m.selectedID()); err != nil {
			m.handleError(err)
			return m, nil
		}
		m.reload()

	case "d":
		id := m.selectedID()
		if _, ok := m.store.Get(id); !ok {
			m.handleError(task.ErrNoSelection)
			return m, nil
		}
		m.confirmMode = true
		m.confirm = confirmDelete
		m.confirmID = id

	case "C":
		m.confirmMode = true
		m.confirm = confirmClear
	}

	return m, nil
}

// runConfirmed hands the user's answer to the pending destructive operation
func (m *Model) runConfirmed(confirmed bool) {
	var err error
	switch m.confirm {
	case confirmDelete:
		err = m.store.Delete(m.confirmID, confirmed)
	case confirmClear:
		var removed int
		removed, err = m.store.ClearCompleted(confirmed)
		if err == nil {
			log.Printf("Cleared %d completed tasks", removed)
		}
	}

	if err != nil {
		m.handleError(err)
		return
	}
	m.reload()
}

// handleError routes an operation error to the right place on screen
func (m *Model) handleError(err error) {
	switch {
	case errors.Is(err, task.ErrDeclined):
		// Declining is not a failure
	case errors.Is(err, task.ErrValidation):
		m.notice = "Please enter a task!"
	case errors.Is(err, task.ErrSelection):
		m.notice = "Please select a task first."
	default:
		log.Printf("Error: %v", err)
		m.err = err
	}
}

// reload pulls the full list from the store after a mutation
func (m *Model) reload() {
	m.tasks = m.store.Tasks()
	m.selected = m.ensureValidSelection(m.selected)
}

// selectedID returns the ID of the highlighted task, or 0 if there is none
func (m Model) selectedID() task.ID {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return 0
	}
	return m.tasks[m.selected].ID
}

// ensureValidSelection clamps a selection to the current list
func (m Model) ensureValidSelection(selected int) int {
	if len(m.tasks) == 0 {
		return 0
	}
	if selected >= len(m.tasks) {
		return len(m.tasks) - 1
	}
	if selected < 0 {
		return 0
	}
	return selected
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress any key to continue, q to quit.", m.err)
	}

	if m.notice != "" {
		return m.renderNotice()
	}

	if m.confirmMode {
		return m.renderConfirmation()
	}

	if m.addMode {
		return m.renderAddForm()
	}

	listWidth := m.width - 2
	listView := m.renderList(listWidth, m.height-3)
	content := borderStyle.Width(listWidth).Height(m.height - 3).Render(listView)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
}

// renderList renders the task table
func (m Model) renderList(width, height int) string {
	var lines []string

	pending, completed := m.store.Counts()
	lines = append(lines, headerStyle.Render(fmt.Sprintf("Tasks (%d pending, %d completed)", pending, completed)))
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	descWidth := max(width-priorityWidth-dateWidth-statusWidth-4, 10)
	lines = append(lines, headerStyle.Render(
		"  "+pad("Task", descWidth)+pad("Priority", priorityWidth)+pad("Date Added", dateWidth)+pad("Status", statusWidth)))

	if len(m.tasks) == 0 {
		lines = append(lines, "", "  No tasks yet. Press a to add one.")
		return strings.Join(lines, "\n")
	}

	// Calculate visible range
	visibleHeight := max(height-4, 1)
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	for i := startIdx; i < len(m.tasks) && i < startIdx+visibleHeight; i++ {
		t := m.tasks[i]

		marker := "  "
		if t.IsCompleted() {
			marker = "✓ "
		}

		desc := pad(truncate(t.Description, descWidth-1), descWidth)
		priority := pad(string(t.Priority), priorityWidth)
		rest := priority + pad(t.DateAdded, dateWidth) + pad(string(t.Status), statusWidth)

		var line string
		switch {
		case i == m.selected:
			line = selectedStyle.Render(marker + desc + rest)
		case t.IsCompleted():
			line = marker + completedStyle.Render(desc) + completedStyle.UnsetStrikethrough().Render(rest)
		default:
			style, ok := priorityStyles[t.Priority]
			if !ok {
				style = lipgloss.NewStyle()
			}
			line = marker + desc + style.Render(priority) + pad(t.DateAdded, dateWidth) + pad(string(t.Status), statusWidth)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.addMode {
		return " Type task • Tab: priority • Enter: add • Esc: done"
	}
	return " j/k: navigate • a: add • c: complete • d: delete • C: clear completed • q: quit"
}

// renderAddForm renders the add task overlay
func (m Model) renderAddForm() string {
	var lines []string
	lines = append(lines, "Add task")
	lines = append(lines, "")
	lines = append(lines, "Task:     "+m.input.View())
	lines = append(lines, "")

	selector := ""
	for i, p := range task.Priorities {
		if i == m.priorityIdx {
			selector += selectedStyle.Render(fmt.Sprintf("[%s]", p)) + " "
		} else {
			selector += fmt.Sprintf(" %s  ", p)
		}
	}
	lines = append(lines, "Priority: "+selector)
	lines = append(lines, "")
	lines = append(lines, "Tab: change priority • Enter: add • Esc: done")

	return m.centered(borderStyle.
		Padding(1).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n")))
}

// renderConfirmation renders the yes/no prompt for destructive actions
func (m Model) renderConfirmation() string {
	var prompt string
	switch m.confirm {
	case confirmDelete:
		t, _ := m.store.Get(m.confirmID)
		prompt = fmt.Sprintf("Delete task '%s'? (y/n)", truncate(t.Description, 40))
	case confirmClear:
		_, completed := m.store.Counts()
		prompt = fmt.Sprintf("Clear all %d completed tasks? (y/n)", completed)
	}

	return m.promptBox(prompt, lipgloss.Color("63"))
}

// renderNotice renders a blocking warning
func (m Model) renderNotice() string {
	return m.promptBox(noticeStyle.Render(m.notice)+"\n\nPress any key", lipgloss.Color("214"))
}

func (m Model) promptBox(text string, border lipgloss.Color) string {
	width := 60
	height := 7

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(height).
		Render(content)

	return m.centered(box)
}

// centered places a box in the middle of the screen
func (m Model) centered(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// pad right-pads s with spaces to width cells
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens s to at most width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
