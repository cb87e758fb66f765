package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setLoginFocus((m.loginFocus + 1) % 2)
		return m, nil
	case "shift+tab", "up":
		m.setLoginFocus((m.loginFocus + 1) % 2)
		return m, nil
	case "ctrl+r":
		m.registering = !m.registering
		m.authErr = ""
		return m, nil
	case "esc":
		// Continue as guest; chat uses the public route until login.
		m.view = viewChat
		m.usernameInput.Blur()
		m.passwordInput.Blur()
		m.msgInput.Focus()
		return m, nil
	case "enter":
		if m.authBusy {
			return m, nil
		}
		return m, m.startAuth()
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *model) setLoginFocus(focus int) {
	m.loginFocus = focus
	if focus == 0 {
		m.usernameInput.Focus()
		m.passwordInput.Blur()
	} else {
		m.usernameInput.Blur()
		m.passwordInput.Focus()
	}
}

func (m *model) startAuth() tea.Cmd {
	username := strings.TrimSpace(m.usernameInput.Value())
	password := m.passwordInput.Value()
	if username == "" || password == "" {
		m.authErr = "Username and password are required"
		return nil
	}
	m.authBusy = true
	m.authErr = ""

	ctx := m.ctx
	authCtx := m.auth
	registering := m.registering
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if registering {
			return authResultMsg{result: authCtx.Register(ctx, username, password)}
		}
		return authResultMsg{result: authCtx.Login(ctx, username, password)}
	})
}

func (m model) viewLogin() string {
	title := "Welcome Back"
	subtitle := "Sign in to start chatting with our AI assistant"
	action := "enter to sign in"
	toggle := "ctrl+r to create an account instead"
	if m.registering {
		title = "Create Account"
		subtitle = "Join our platform and experience intelligent conversations"
		action = "enter to create account"
		toggle = "ctrl+r to sign in instead"
	}

	lines := []string{
		titleStyle.Render(title),
		dimStyle.Render(subtitle),
		"",
	}
	if m.authErr != "" {
		lines = append(lines, errStyle.Render(m.authErr), "")
	}
	lines = append(lines,
		m.usernameInput.View(),
		m.passwordInput.View(),
		"",
	)
	if m.authBusy {
		lines = append(lines, dimStyle.Render(m.spinner.View()+" Please wait..."))
	} else {
		lines = append(lines, dimStyle.Render(action+" - "+toggle))
		lines = append(lines, dimStyle.Render("esc to chat as guest"))
	}
	lines = append(lines,
		"",
		dimStyle.Render("Demo credentials: demo / password123"),
	)

	box := formBoxStyle.Render(strings.Join(lines, "\n"))
	height := m.height - 2
	if height < 1 {
		height = 1
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}
