// Package tui implements the interactive terminal chat client as a
// Bubble Tea model. Answers stream in fragment by fragment: the chat
// service writes events into a channel and the update loop drains it
// one event per command, so the viewport repaints as text arrives.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	AskStream(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamEvent) error) error
}

// eventBuffer sizes the stream channel. Generation outpaces terminal
// repaints, so fragments queue up here instead of blocking the producer.
const eventBuffer = 32

// turn is one rendered line of the conversation transcript.
type turn struct {
	role string
	text string
}

// streamEventMsg delivers one chat stream event to the update loop.
type streamEventMsg domain.StreamEvent

// streamClosedMsg signals that the stream channel has been closed.
type streamClosedMsg struct{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	chat  ChatPort
	owner string
	topK  int

	sessionID int64

	input    textinput.Model
	viewport viewport.Model

	turns     []turn
	streaming bool
	status    string
	ready     bool

	events chan domain.StreamEvent
	cancel context.CancelFunc
}

// New creates a chat TUI model. A zero sessionID starts a fresh
// conversation on the first question.
func New(chat ChatPort, owner string, topK int, sessionID int64) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		chat:      chat,
		owner:     owner,
		topK:      topK,
		sessionID: sessionID,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Ready. Ctrl+C to quit.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 + th // title, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.streaming {
			return m.submit()
		}

	case streamEventMsg:
		return m.handleStreamEvent(domain.StreamEvent(msg))

	case streamClosedMsg:
		m.streaming = false
		m.cancel = nil
		m.events = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a streaming exchange for the current input.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}
	m.input.Reset()

	m.turns = append(m.turns, turn{role: "You", text: question})
	m.turns = append(m.turns, turn{role: "Assistant", text: ""})
	m.streaming = true
	m.status = "Thinking..."

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.events = make(chan domain.StreamEvent, eventBuffer)

	req := domain.ChatRequest{
		Owner:     m.owner,
		Question:  question,
		SessionID: m.sessionID,
		TopK:      m.topK,
	}
	go runStream(ctx, m.chat, req, m.events)

	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m, waitForEvent(m.events)
}

// runStream executes the exchange and forwards its events to ch. If the
// service fails before emitting a terminal event, a synthetic error
// event takes its place so the update loop always sees exactly one.
func runStream(ctx context.Context, chat ChatPort, req domain.ChatRequest, ch chan<- domain.StreamEvent) {
	defer close(ch)

	terminal := false
	err := chat.AskStream(ctx, req, func(ev domain.StreamEvent) error {
		select {
		case ch <- ev:
			if ev.Type != domain.StreamChunk {
				terminal = true
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil && !terminal {
		select {
		case ch <- domain.StreamEvent{Type: domain.StreamError, Text: err.Error()}:
		case <-ctx.Done():
		}
	}
}

// waitForEvent reads the next stream event as a Bubble Tea command.
func waitForEvent(ch <-chan domain.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg(ev)
	}
}

func (m Model) handleStreamEvent(ev domain.StreamEvent) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case domain.StreamChunk:
		last := len(m.turns) - 1
		m.turns[last].text += ev.Text

	case domain.StreamDone:
		m.sessionID = ev.SessionID
		m.status = fmt.Sprintf("Session %d. Ctrl+C to quit.", ev.SessionID)

	case domain.StreamError:
		last := len(m.turns) - 1
		if m.turns[last].text == "" {
			m.turns = m.turns[:last]
		}
		m.status = errorStyle.Render("Error: " + ev.Text)
	}

	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m, waitForEvent(m.events)
}

// View renders the title, transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("docchat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return title + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No messages yet. Ask about the indexed document."
	}
	parts := make([]string, 0, len(m.turns))
	for _, t := range m.turns {
		var label lipgloss.Style
		if t.role == "You" {
			label = userLabelStyle
		} else {
			label = assistantLabelStyle
		}
		parts = append(parts, label.Render(t.role+":")+" "+t.text)
	}
	return strings.Join(parts, "\n\n")
}

// SessionID returns the session the conversation is bound to. Zero until
// the first completed exchange.
func (m Model) SessionID() int64 { return m.sessionID }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
