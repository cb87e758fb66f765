package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"chatterm/internal/api"
)

// openSessions shows the backend's record of past conversations. This
// is bookkeeping only; it never touches the live conversation.
func (m model) openSessions() (tea.Model, tea.Cmd) {
	if !m.auth.IsAuthenticated() {
		m.errMsg = "Sign in to browse your sessions"
		return m, nil
	}
	m.showSessions = true
	m.detailOpen = false
	m.errMsg = ""
	m.sessionsBusy = true
	m.msgInput.Blur()

	ctx := m.ctx
	client := m.client
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		sessions, err := client.ListSessions(ctx)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return sessionsMsg{sessions: sessions}
	})
}

func (m model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.detailOpen {
			m.detailOpen = false
			return m, nil
		}
		m.showSessions = false
		m.msgInput.Focus()
		return m, nil
	case "enter":
		if m.detailOpen {
			return m, nil
		}
		item, ok := m.sessionsList.SelectedItem().(sessionItem)
		if !ok {
			return m, nil
		}
		m.sessionsBusy = true
		ctx := m.ctx
		client := m.client
		id := item.data.SessionID
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			session, err := client.GetSession(ctx, id)
			if err != nil {
				return fetchErrMsg{err: err}
			}
			return sessionDetailMsg{session: session}
		})
	}

	var cmd tea.Cmd
	if m.detailOpen {
		m.sessionDetail, cmd = m.sessionDetail.Update(msg)
	} else {
		m.sessionsList, cmd = m.sessionsList.Update(msg)
	}
	return m, cmd
}

func (m model) viewSessions() string {
	status := dimStyle.Render("enter to open - esc to go back")
	if m.sessionsBusy {
		status = dimStyle.Render(m.spinner.View() + " loading...")
	}
	if m.errMsg != "" {
		status = errStyle.Render(m.errMsg)
	}
	body := m.sessionsList.View()
	if m.detailOpen {
		body = m.sessionDetail.View()
	}
	return strings.Join([]string{body, status}, "\n")
}

func renderSessionDetail(session *api.Session, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Session "+session.ShortID()) + "\n")
	b.WriteString(metaStyle.Render("started "+formatServerTime(session.CreatedAt)) + "\n\n")
	for _, msg := range session.Messages {
		label := botStyle.Render("AI")
		if strings.EqualFold(msg.Type, "USER") {
			label = userStyle.Render("You")
		}
		b.WriteString(label + " " + metaStyle.Render(formatServerTime(msg.Timestamp)) + "\n")
		b.WriteString(msg.Content + "\n\n")
	}
	if len(session.Messages) == 0 {
		b.WriteString(dimStyle.Render("No stored messages."))
	}
	return b.String()
}
