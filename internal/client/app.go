package client

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatrelay/internal/config"
)

type connectedMsg struct{ err error }

type frameMsg Frame

type logLevel int

const (
	logLevelInfo logLevel = iota
	logLevelError
)

type logLine struct {
	level logLevel
	body  string
}

// App is the bubbletea model for the terminal chat client.
type App struct {
	cfg     config.ClientConfig
	session *Session

	viewport viewport.Model
	input    textinput.Model
	styles   styleSet

	history []string
	logLine logLine
	online  bool
	width   int
	height  int
}

// NewApp constructs the client model.
func NewApp(cfg config.ClientConfig) *App {
	input := textinput.New()
	input.Placeholder = "Type a message and press Enter"
	input.Prompt = "> "
	input.Focus()

	return &App{
		cfg:      cfg,
		session:  NewSession(cfg),
		viewport: viewport.New(80, 20),
		input:    input,
		styles:   buildStyles(),
		logLine:  logLine{body: "connecting..."},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.connectCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateViewportSize()
		a.updateInputWidth()
		a.updateViewportContent()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			_ = a.session.Close()
			return a, tea.Quit
		case tea.KeyEnter:
			return a, a.submitInput()
		}

	case connectedMsg:
		if msg.err != nil {
			a.online = false
			a.logLine = logLine{level: logLevelError, body: "connect failed: " + msg.err.Error()}
			return a, nil
		}
		a.online = true
		a.logLine = logLine{body: "connected to room " + a.cfg.Room}
		return a, a.waitFrameCmd()

	case frameMsg:
		if msg.Err != nil {
			a.online = false
			a.logLine = logLine{level: logLevelError, body: "disconnected: " + msg.Err.Error()}
			return a, nil
		}
		a.appendHistory(msg.Text)
		return a, a.waitFrameCmd()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submitInput() tea.Cmd {
	text := a.input.Value()
	if text == "" {
		return nil
	}
	a.input.Reset()

	if !a.online {
		a.logLine = logLine{level: logLevelError, body: "not connected"}
		return nil
	}
	if err := a.session.Send(text); err != nil {
		a.online = false
		a.logLine = logLine{level: logLevelError, body: "send failed: " + err.Error()}
		return nil
	}

	// The relay never echoes a message back to its sender.
	a.appendHistory("you :: " + text)
	return nil
}

func (a *App) appendHistory(line string) {
	a.history = append(a.history, line)
	a.updateViewportContent()
}

func (a *App) connectCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return connectedMsg{err: a.session.Connect(ctx)}
	}
}

func (a *App) waitFrameCmd() tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-a.session.Frames())
	}
}
