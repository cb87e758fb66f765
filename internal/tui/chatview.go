package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"chatterm/internal/chat"
)

func (m model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		if m.auth.IsAuthenticated() {
			m.logout()
		} else {
			m.toLogin()
		}
		return m, nil

	case key.Matches(msg, m.keys.Sessions):
		return m.openSessions()

	case key.Matches(msg, m.keys.Suggest):
		chips := m.currentSuggestions()
		if len(chips) == 0 {
			return m, nil
		}
		m.chipIndex = (m.chipIndex + 1) % (len(chips) + 1)
		if m.chipIndex == len(chips) {
			m.chipIndex = -1
			m.msgInput.Focus()
		} else {
			m.msgInput.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.Newline):
		m.msgInput.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keys.Send):
		if m.chipIndex >= 0 {
			chips := m.currentSuggestions()
			if m.chipIndex < len(chips) {
				m.msgInput.SetValue(m.conv.PickSuggestion(chips[m.chipIndex]))
				m.msgInput.CursorEnd()
			}
			m.chipIndex = -1
			m.msgInput.Focus()
			return m, nil
		}
		return m, m.startSend()
	}

	switch msg.String() {
	case "esc":
		if m.chipIndex >= 0 {
			m.chipIndex = -1
			m.msgInput.Focus()
			return m, nil
		}
		return m, nil
	case "left", "right":
		if m.chipIndex >= 0 {
			chips := m.currentSuggestions()
			if len(chips) > 0 {
				if msg.String() == "left" {
					m.chipIndex = (m.chipIndex + len(chips) - 1) % len(chips)
				} else {
					m.chipIndex = (m.chipIndex + 1) % len(chips)
				}
			}
			return m, nil
		}
	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.msgInput, cmd = m.msgInput.Update(msg)
	return m, cmd
}

// startSend drives the conversation's submit transition and schedules
// the dispatched transport call as a command. A rejected submit leaves
// everything, including the input buffer, alone.
func (m *model) startSend() tea.Cmd {
	dispatch, ok := m.conv.Submit(m.msgInput.Value())
	if !ok {
		return nil
	}
	m.msgInput.SetValue("")
	m.msgInput.CursorEnd()
	m.chipIndex = -1
	m.errMsg = ""
	m.refreshTranscript()
	m.transcript.GotoBottom()

	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return sendResultMsg{result: dispatch(ctx)}
	})
}

// logout drops the credentials and starts a fresh conversation, the
// equivalent of unmounting the chat screen.
func (m *model) logout() {
	m.auth.Logout()
	m.conv = chat.New(m.client, m.auth)
	m.refreshTranscript()
	m.toLogin()
}

func (m *model) toLogin() {
	m.view = viewLogin
	m.msgInput.Blur()
	m.chipIndex = -1
	m.loginFocus = 0
	m.usernameInput.Focus()
	m.passwordInput.Blur()
}

// currentSuggestions returns the quick replies to offer right now: the
// latest bot turn's suggestions, hidden while a send is in flight.
func (m model) currentSuggestions() []string {
	if m.conv.Pending() {
		return nil
	}
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == chat.SenderBot {
			return msgs[i].Suggestions
		}
	}
	return nil
}

func (m *model) refreshTranscript() {
	m.transcript.SetContent(renderTranscript(m.conv.Messages(), m.transcript.Width))
}

func renderTranscript(msgs []chat.Message, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMessage(msg, width))
	}
	return b.String()
}

func renderMessage(msg chat.Message, width int) string {
	label := botStyle.Render("AI")
	if msg.Sender == chat.SenderUser {
		label = userStyle.Render("You")
	}
	meta := msg.Timestamp.Format("15:04:05")
	if msg.Intent != "" {
		if msg.Confidence != nil {
			meta += fmt.Sprintf(" - %s (%.0f%%)", msg.Intent, *msg.Confidence*100)
		} else {
			meta += " - " + msg.Intent
		}
	}
	header := label + " " + metaStyle.Render(meta)
	body := ansi.Wrap(msg.Content, width-2, "")
	return header + "\n" + body + "\n"
}

func (m model) viewChat() string {
	w := m.transcript.Width

	pending := ""
	if m.conv.Pending() {
		pending = dimStyle.Render(m.spinner.View() + " AI is thinking...")
	}

	errLine := ""
	if m.errMsg != "" {
		errLine = errStyle.Render(m.errMsg)
	}

	msgBox := msgBoxStyle.Width(w).Render(m.msgInput.View())

	lines := []string{
		m.transcript.View(),
		pending,
		m.renderChips(),
		errLine,
		msgBox,
	}
	return strings.Join(lines, "\n")
}

func (m model) renderChips() string {
	chips := m.currentSuggestions()
	if len(chips) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(chips))
	for i, chip := range chips {
		style := chipStyle
		if i == m.chipIndex {
			style = chipActiveStyle
		}
		rendered = append(rendered, style.Render("["+chip+"]"))
	}
	return strings.Join(rendered, " ")
}

// formatServerTime renders a server-reported timestamp string for
// display, falling back to the raw value when it does not parse.
func formatServerTime(value string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format("2006-01-02 15:04")
		}
	}
	return value
}
