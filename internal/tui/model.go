package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
	"docchat/internal/session"
)

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type answerMsg struct{ turn domain.ChatTurn }

type profileLoadedMsg struct {
	name    string
	results []session.LoadResult
}

type uploadedMsg struct {
	name    string
	summary string
	err     error
}

type actionErrMsg struct {
	action string
	err    error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	session *session.Session

	input      textinput.Model
	viewport   viewport.Model
	spin       spinner.Model
	transcript []string
	status     string
	busy       bool
	ready      bool
}

// New creates the chat model over a session.
func New(sess *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /help for commands"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{
		session:  sess,
		input:    ti,
		viewport: vp,
		spin:     sp,
		status:   "No profile selected. /new <name> or /profile <name> to begin.",
	}
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + ch + 1 // header, status, frames, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		m.status = fmt.Sprintf("Profile: %s", m.profileLabel())
		m.refresh()
		return m, nil

	case profileLoadedMsg:
		m.busy = false
		loaded := 0
		for _, r := range msg.results {
			if r.Err != nil {
				m.notice(errorStyle.Render(fmt.Sprintf("Error loading %s: %v", r.Document, r.Err)))
				continue
			}
			loaded++
			line := fmt.Sprintf("Loaded %s", r.Document)
			if r.Summary != "" {
				line += " — " + r.Summary
			}
			m.notice(noticeStyle.Render(line))
		}
		m.status = fmt.Sprintf("Profile: %s (%d documents loaded)", msg.name, loaded)
		m.refresh()
		return m, nil

	case actionErrMsg:
		m.busy = false
		m.notice(errorStyle.Render(fmt.Sprintf("%s failed: %v", msg.action, msg.err)))
		m.status = fmt.Sprintf("Profile: %s", m.profileLabel())
		m.refresh()
		return m, nil

	case uploadedMsg:
		m.busy = false
		if msg.err != nil {
			m.notice(errorStyle.Render(fmt.Sprintf("Upload %s failed: %v", msg.name, msg.err)))
		} else {
			line := fmt.Sprintf("Ingested %s", msg.name)
			if msg.summary != "" {
				line += " — " + msg.summary
			}
			m.notice(noticeStyle.Render(line))
		}
		m.status = fmt.Sprintf("Profile: %s", m.profileLabel())
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.busy {
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			if cmd, ok := ParseCommand(line); ok {
				return m.runCommand(cmd)
			}
			return m.ask(line)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docchat — ask your documents")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spin.View() + " " + status
	}
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) ask(question string) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = "Thinking..."
	sess := m.session
	return *m, tea.Batch(m.spin.Tick, func() tea.Msg {
		turn := sess.Send(context.Background(), question)
		return answerMsg{turn: turn}
	})
}

func (m *Model) runCommand(cmd Command) (tea.Model, tea.Cmd) {
	switch cmd.Name {
	case "help":
		m.notice(noticeStyle.Render(helpText))

	case "new":
		if len(cmd.Args) != 1 {
			m.notice(errorStyle.Render("Usage: /new <name>"))
			break
		}
		if err := m.session.CreateProfile(cmd.Args[0]); err != nil {
			m.notice(errorStyle.Render("Create failed: " + err.Error()))
			break
		}
		m.status = fmt.Sprintf("Profile: %s (empty)", cmd.Args[0])
		m.notice(noticeStyle.Render("Created profile " + cmd.Args[0]))

	case "profiles":
		names, err := m.session.Profiles()
		if err != nil {
			m.notice(errorStyle.Render("List failed: " + err.Error()))
			break
		}
		if len(names) == 0 {
			m.notice(noticeStyle.Render("No profiles yet. /new <name> to create one."))
			break
		}
		m.notice(noticeStyle.Render("Profiles: " + strings.Join(names, ", ")))

	case "docs":
		docs, err := m.session.ActiveDocuments()
		if err != nil {
			m.notice(errorStyle.Render("List failed: " + err.Error()))
			break
		}
		if len(docs) == 0 {
			m.notice(noticeStyle.Render("No documents in the active profile."))
			break
		}
		m.notice(noticeStyle.Render("Documents: " + strings.Join(docs, ", ")))

	case "profile":
		if len(cmd.Args) != 1 {
			m.notice(errorStyle.Render("Usage: /profile <name>"))
			break
		}
		name := cmd.Args[0]
		m.busy = true
		m.transcript = nil
		m.status = "Loading profile " + name + "..."
		sess := m.session
		m.refresh()
		return *m, tea.Batch(m.spin.Tick, func() tea.Msg {
			results, err := sess.SelectProfile(context.Background(), name)
			if err != nil {
				return actionErrMsg{action: "Switching to " + name, err: err}
			}
			return profileLoadedMsg{name: name, results: results}
		})

	case "upload":
		if len(cmd.Args) < 1 || len(cmd.Args) > 2 {
			m.notice(errorStyle.Render("Usage: /upload <path> [name]"))
			break
		}
		path := cmd.Args[0]
		name := filepath.Base(path)
		if len(cmd.Args) == 2 {
			name = cmd.Args[1]
		}
		m.busy = true
		m.transcript = nil
		m.status = "Ingesting " + name + "..."
		sess := m.session
		m.refresh()
		return *m, tea.Batch(m.spin.Tick, func() tea.Msg {
			summary, err := sess.Upload(context.Background(), path, name)
			return uploadedMsg{name: name, summary: summary, err: err}
		})

	case "delete":
		if len(cmd.Args) != 1 {
			m.notice(errorStyle.Render("Usage: /delete <name>"))
			break
		}
		if err := m.session.DeleteProfile(cmd.Args[0]); err != nil {
			m.notice(errorStyle.Render("Delete failed: " + err.Error()))
			break
		}
		m.status = fmt.Sprintf("Profile: %s", m.profileLabel())
		m.notice(noticeStyle.Render("Deleted profile " + cmd.Args[0]))

	case "clear":
		m.session.ClearChat()
		m.transcript = nil
		m.notice(noticeStyle.Render("Chat and index cleared."))

	default:
		m.notice(errorStyle.Render("Unknown command: /" + cmd.Name))
	}
	m.refresh()
	return *m, nil
}

func (m *Model) notice(line string) {
	m.transcript = append(m.transcript, line)
}

// refresh rebuilds the viewport from the session history plus any
// system notices and scrolls to the bottom.
func (m *Model) refresh() {
	var lines []string
	lines = append(lines, m.transcript...)
	for _, turn := range m.session.History() {
		switch turn.Role {
		case domain.RoleUser:
			lines = append(lines, userStyle.Render("You: ")+turn.Content)
		case domain.RoleAssistant:
			lines = append(lines, assistantStyle.Render("Assistant: ")+turn.Content)
		}
	}
	if len(lines) == 0 {
		lines = []string{noticeStyle.Render("No messages yet.")}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) profileLabel() string {
	if p := m.session.ActiveProfile(); p != "" {
		return p
	}
	return "none"
}
