package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"chatterm/internal/api"
)

type sessionItem struct {
	data api.Session
}

func (i sessionItem) Title() string {
	status := strings.ToLower(i.data.Status)
	if status == "" {
		status = "unknown"
	}
	return fmt.Sprintf("%s - %s", i.data.ShortID(), status)
}

func (i sessionItem) Description() string {
	last := i.data.LastActivity
	if last == "" {
		last = i.data.CreatedAt
	}
	return fmt.Sprintf("%d messages - last active %s", len(i.data.Messages), last)
}

func (i sessionItem) FilterValue() string {
	return i.data.SessionID + " " + i.data.CurrentIntent
}

func newSessionsList() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Your sessions"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}
