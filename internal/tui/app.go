// Package tui is the terminal front end. It renders the conversation
// core's state and feeds user events back into it; all chat semantics
// live in internal/chat, all network calls run as tea commands off the
// event loop.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatterm/internal/api"
	"chatterm/internal/auth"
	"chatterm/internal/chat"
	"chatterm/internal/config"
	"chatterm/internal/logger"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	headerInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	botStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	metaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	chipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("105"))
	chipActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63"))
	inputBackground = lipgloss.AdaptiveColor{Light: "252", Dark: "236"}
	msgBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Background(inputBackground)
	formBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

type view int

const (
	viewLogin view = iota
	viewChat
)

type authResultMsg struct{ result auth.Result }

type sendResultMsg struct{ result chat.Result }

type sessionsMsg struct{ sessions []api.Session }

type sessionDetailMsg struct{ session *api.Session }

type fetchErrMsg struct{ err error }

type model struct {
	cfg    config.Config
	client *api.Client
	auth   *auth.Context
	conv   *chat.Conversation
	ctx    context.Context

	view   view
	width  int
	height int

	// login form
	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	registering   bool
	authBusy      bool
	authErr       string

	// chat
	transcript viewport.Model
	msgInput   textarea.Model
	spinner    spinner.Model
	chipIndex  int
	errMsg     string

	// sessions browser
	showSessions  bool
	sessionsList  list.Model
	sessionDetail viewport.Model
	sessionsBusy  bool
	detailOpen    bool

	keys     keyMap
	help     help.Model
	showHelp bool
}

// Run starts the TUI over an already-constructed client and auth
// context. It blocks until the user quits.
func Run(cfg config.Config, client *api.Client, authCtx *auth.Context) error {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "Username"
	usernameInput.Width = 32

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 32

	msgInput := textarea.New()
	msgInput.Placeholder = "Type your message..."
	msgInput.Prompt = ""
	msgInput.ShowLineNumbers = false
	msgInput.FocusedStyle.Base = msgInput.FocusedStyle.Base.Background(inputBackground)
	msgInput.BlurredStyle.Base = msgInput.BlurredStyle.Base.Background(inputBackground)
	msgInput.FocusedStyle.CursorLine = msgInput.FocusedStyle.CursorLine.Background(inputBackground)
	msgInput.BlurredStyle.CursorLine = msgInput.BlurredStyle.CursorLine.Background(inputBackground)

	spin := spinner.New()
	spin.Spinner = spinner.Line
	spin.Style = dimStyle

	m := model{
		cfg:           cfg,
		client:        client,
		auth:          authCtx,
		conv:          chat.New(client, authCtx),
		ctx:           context.Background(),
		usernameInput: usernameInput,
		passwordInput: passwordInput,
		transcript:    viewport.New(0, 0),
		msgInput:      msgInput,
		spinner:       spin,
		chipIndex:     -1,
		sessionsList:  newSessionsList(),
		sessionDetail: viewport.New(0, 0),
		keys:          defaultKeyMap,
		help:          help.New(),
	}
	if authCtx.IsAuthenticated() {
		m.view = viewChat
		m.msgInput.Focus()
	} else {
		m.view = viewLogin
		m.usernameInput.Focus()
	}
	m.refreshTranscript()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if m.conv.Pending() || m.authBusy || m.sessionsBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case authResultMsg:
		m.authBusy = false
		if !msg.result.Success {
			m.authErr = msg.result.Error
			return m, nil
		}
		m.authErr = ""
		m.passwordInput.SetValue("")
		m.view = viewChat
		m.usernameInput.Blur()
		m.passwordInput.Blur()
		m.msgInput.Focus()
		return m, nil

	case sendResultMsg:
		m.conv.Apply(msg.result)
		m.refreshTranscript()
		m.transcript.GotoBottom()
		return m, nil

	case sessionsMsg:
		m.sessionsBusy = false
		items := make([]list.Item, 0, len(msg.sessions))
		for _, s := range msg.sessions {
			items = append(items, sessionItem{data: s})
		}
		m.sessionsList.SetItems(items)
		return m, nil

	case sessionDetailMsg:
		m.sessionsBusy = false
		m.detailOpen = true
		m.sessionDetail.SetContent(renderSessionDetail(msg.session, m.sessionDetail.Width))
		m.sessionDetail.GotoTop()
		return m, nil

	case fetchErrMsg:
		m.sessionsBusy = false
		m.errMsg = msg.err.Error()
		logger.Error("session fetch failed", "error", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showSessions {
		return m.handleSessionsKey(msg)
	}
	if m.view == viewLogin {
		return m.handleLoginKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	var body string
	switch {
	case m.showSessions:
		body = m.viewSessions()
	case m.view == viewLogin:
		body = m.viewLogin()
	default:
		body = m.viewChat()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *model) layout() {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	// header + footer + chips + pending line + input box + padding
	th := m.height - inputHeight - 8
	if th < 3 {
		th = 3
	}
	m.transcript.Width = w
	m.transcript.Height = th
	m.msgInput.SetWidth(w - 2)
	m.msgInput.SetHeight(inputHeight)
	m.sessionsList.SetSize(w, th+inputHeight)
	m.sessionDetail.Width = w
	m.sessionDetail.Height = th + inputHeight
	m.help.Width = w
}

const inputHeight = 3

func (m model) renderHeader() string {
	title := titleStyle.Render("Conversational AI Platform")
	var info string
	if user, ok := m.auth.User(); ok {
		info = headerInfoStyle.Render("Welcome, " + user.Username)
	} else if m.view == viewChat {
		info = headerInfoStyle.Render("chatting as guest")
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(info) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + title + strings.Repeat(" ", gap) + info
}

func (m model) renderFooter() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
