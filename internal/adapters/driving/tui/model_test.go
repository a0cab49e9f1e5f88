package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// fakeChat replays a scripted event sequence through emit.
type fakeChat struct {
	events  []domain.StreamEvent
	err     error
	lastReq domain.ChatRequest
}

func (f *fakeChat) AskStream(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamEvent) error) error {
	f.lastReq = req
	for _, ev := range f.events {
		if err := emit(ev); err != nil {
			return err
		}
	}
	return f.err
}

// drain runs the model's command loop until the stream channel closes.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		m, cmd = m.Update(msg)
		if _, ok := msg.(streamClosedMsg); ok {
			break
		}
	}
	return m.(Model)
}

func submitQuestion(t *testing.T, m Model, question string) (tea.Model, tea.Cmd) {
	t.Helper()
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	for _, r := range question {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return model.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModelStreamsAnswer(t *testing.T) {
	chat := &fakeChat{events: []domain.StreamEvent{
		{Type: domain.StreamChunk, Text: "The answer"},
		{Type: domain.StreamChunk, Text: " is 42."},
		{Type: domain.StreamDone, SessionID: 7},
	}}

	model, cmd := submitQuestion(t, New(chat, "alice", 3, 0), "what is the answer?")
	require.NotNil(t, cmd)

	final := drain(t, model, cmd)

	assert.Equal(t, int64(7), final.SessionID())
	assert.False(t, final.streaming)
	require.Len(t, final.turns, 2)
	assert.Equal(t, "what is the answer?", final.turns[0].text)
	assert.Equal(t, "The answer is 42.", final.turns[1].text)

	assert.Equal(t, "alice", chat.lastReq.Owner)
	assert.Equal(t, 3, chat.lastReq.TopK)
}

func TestModelContinuesSession(t *testing.T) {
	chat := &fakeChat{events: []domain.StreamEvent{
		{Type: domain.StreamChunk, Text: "More."},
		{Type: domain.StreamDone, SessionID: 7},
	}}

	model, cmd := submitQuestion(t, New(chat, "alice", 3, 7), "and then?")
	final := drain(t, model, cmd)

	assert.Equal(t, int64(7), chat.lastReq.SessionID)
	assert.Equal(t, int64(7), final.SessionID())
}

func TestModelShowsServiceError(t *testing.T) {
	chat := &fakeChat{err: errors.New("llm unreachable")}

	model, cmd := submitQuestion(t, New(chat, "alice", 3, 0), "hello")
	final := drain(t, model, cmd)

	assert.False(t, final.streaming)
	// The empty assistant placeholder is dropped on error.
	require.Len(t, final.turns, 1)
	assert.Contains(t, final.status, "llm unreachable")
}

func TestModelIgnoresEmptyInput(t *testing.T) {
	chat := &fakeChat{}
	var model tea.Model = New(chat, "alice", 3, 0)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m := model.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.streaming)
	assert.Empty(t, m.turns)
}

func TestModelViewRendersTranscript(t *testing.T) {
	chat := &fakeChat{events: []domain.StreamEvent{
		{Type: domain.StreamChunk, Text: "Paris."},
		{Type: domain.StreamDone, SessionID: 1},
	}}

	model, cmd := submitQuestion(t, New(chat, "alice", 3, 0), "capital of France?")
	final := drain(t, model, cmd)

	view := final.View()
	assert.True(t, strings.Contains(view, "capital of France?"))
	assert.True(t, strings.Contains(view, "Paris."))
}
