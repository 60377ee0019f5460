package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cecil-the-coder/chat-stream-kit/pkg/chat"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("36"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	inputBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

type (
	streamStartedMsg struct{ deltas <-chan chat.Delta }
	streamDeltaMsg   chat.Delta
	streamDoneMsg    struct{}
	sendRejectedMsg  struct{ err error }
)

type chatModel struct {
	session *chat.Session
	cfg     *config.Config

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	deltaCh <-chan chat.Delta
	sending bool
	ready   bool
	hint    string
	width   int
	height  int
}

func newChatModel(session *chat.Session, cfg *config.Config) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message and press enter"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return chatModel{
		session: session,
		cfg:     cfg,
		input:   input,
		spin:    spin,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - 6
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 6
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			// Sending stays disabled while a request is in flight; the
			// no-op is enforced again by the session itself.
			if !m.sending {
				value := m.input.Value()
				m.input.SetValue("")
				m.hint = ""
				return m, sendCmd(m.session, value)
			}
			return m, nil
		}

	case streamStartedMsg:
		m.sending = true
		m.deltaCh = msg.deltas
		m.refreshTranscript()
		return m, tea.Batch(m.spin.Tick, readDeltaCmd(m.deltaCh))

	case streamDeltaMsg:
		// Deltas arrive in extraction order; the transcript re-renders
		// and scrolls to the latest content on every append.
		m.refreshTranscript()
		return m, readDeltaCmd(m.deltaCh)

	case streamDoneMsg:
		m.sending = false
		m.deltaCh = nil
		m.refreshTranscript()
		return m, nil

	case sendRejectedMsg:
		m.hint = m.rejectionHint(msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m chatModel) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("chatstream"))
	if m.cfg.Endpoint.URL != "" {
		b.WriteString(hintStyle.Render("  " + m.cfg.Endpoint.URL))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.sending {
		b.WriteString(m.spin.View() + hintStyle.Render("waiting for reply..."))
		b.WriteString("\n")
	} else {
		b.WriteString(inputBoxStyle.Width(m.width - 2).Render(m.input.View()))
		b.WriteString("\n")
	}
	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint))
	}
	return b.String()
}

// refreshTranscript re-renders the history into the viewport and scrolls
// to the bottom.
func (m *chatModel) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.session.History() {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(userStyle.Render("you: "))
		case chat.RoleAssistant:
			b.WriteString(assistantStyle.Render("assistant: "))
		}
		content := msg.Content
		if content == "" && msg.Role == chat.RoleAssistant {
			content = "..."
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String()))
	m.viewport.GotoBottom()
}

func (m chatModel) rejectionHint(err error) string {
	switch err {
	case chat.ErrEmptyInput:
		return "nothing to send"
	case chat.ErrNoEndpoint:
		return "no endpoint configured; pass --endpoint or set endpoint.url in the config"
	case chat.ErrRateLimited:
		return "slow down; rate limit reached"
	case chat.ErrBusy:
		return "still waiting for the previous reply"
	default:
		return err.Error()
	}
}

// sendCmd submits the input to the session. A rejected send (gated
// no-op) surfaces as a hint; an accepted one hands its delta channel to
// the update loop, which is the single consumer applying deltas in order.
func sendCmd(session *chat.Session, input string) tea.Cmd {
	return func() tea.Msg {
		deltas, err := session.Send(context.Background(), input)
		if err != nil {
			return sendRejectedMsg{err: err}
		}
		return streamStartedMsg{deltas: deltas}
	}
}

// readDeltaCmd reads a single delta from the channel.
func readDeltaCmd(ch <-chan chat.Delta) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return streamDeltaMsg(d)
	}
}
