package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Zacy-Sokach/sqlassistant/internal/chat"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeAsker struct {
	answer    string
	err       error
	questions []string
}

func (f *fakeAsker) Ask(_ context.Context, question string) (string, error) {
	f.questions = append(f.questions, question)
	return f.answer, f.err
}

func newTestModel(t *testing.T, asker *fakeAsker) *Model {
	t.Helper()
	conv := chat.NewConversation(chat.ThemeLight)
	fixed := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	conv.SetClock(func() time.Time { return fixed })

	m := NewModel(conv, asker, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// runCmd 执行命令并展开一层 BatchMsg
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, runCmd(c)...)
	}
	return msgs
}

// deliverAnswer 把命令产生的 answerMsg 交回模型
func deliverAnswer(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if a, ok := msg.(answerMsg); ok {
			m.Update(a)
			return
		}
	}
	t.Fatal("no answerMsg produced")
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func pressEnter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestInitialView(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})
	view := m.View()

	for _, want := range []string{"SQL Assistant", "Welcome to SQL Assistant!", "Dark (ctrl+t)", "Powered by AI"} {
		if !strings.Contains(view, want) {
			t.Errorf("initial view missing %q", want)
		}
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := NewModel(chat.NewConversation(chat.ThemeLight), &fakeAsker{}, nil)
	if got := m.View(); got != "Starting SQL Assistant..." {
		t.Errorf("View() = %q", got)
	}
}

func TestEnterSubmitsAndAnswerSettles(t *testing.T) {
	asker := &fakeAsker{answer: "There are 42 users."}
	m := newTestModel(t, asker)

	typeText(m, "  How many users?  ")
	cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("Enter produced no command")
	}

	conv := m.Conversation()
	if !conv.Loading() || conv.ShowWelcome() || conv.Len() != 1 {
		t.Fatalf("state after submit: loading=%v welcome=%v len=%d", conv.Loading(), conv.ShowWelcome(), conv.Len())
	}
	if m.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", m.textarea.Value())
	}
	if !strings.Contains(m.View(), "Generating response...") {
		t.Error("loading indicator not shown")
	}

	deliverAnswer(t, m, cmd)

	if len(asker.questions) != 1 || asker.questions[0] != "How many users?" {
		t.Errorf("asker got %q, want trimmed question", asker.questions)
	}
	if conv.Loading() || conv.Len() != 2 {
		t.Fatalf("state after answer: loading=%v len=%d", conv.Loading(), conv.Len())
	}
	view := m.View()
	for _, want := range []string{"How many users?", "There are 42 users.", "09:30"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Generating response...") {
		t.Error("loading indicator still shown")
	}
}

func TestFailedAnswerShowsErrorMarker(t *testing.T) {
	m := newTestModel(t, &fakeAsker{err: errors.New("connection refused")})

	typeText(m, "Show tables")
	deliverAnswer(t, m, pressEnter(m))

	msgs := m.Conversation().Messages()
	if len(msgs) != 2 || !msgs[1].IsError() || msgs[1].Text != chat.FallbackAnswer {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	view := m.View()
	if !strings.Contains(view, chat.FallbackAnswer) {
		t.Error("fallback text not shown")
	}
	if !strings.Contains(view, "Error: Unable to process request") {
		t.Error("error marker not shown")
	}
}

func TestBlankEnterIsIgnored(t *testing.T) {
	asker := &fakeAsker{}
	m := newTestModel(t, asker)

	typeText(m, "   ")
	if cmd := pressEnter(m); cmd != nil {
		t.Error("blank input produced a command")
	}
	conv := m.Conversation()
	if conv.Len() != 0 || conv.Loading() || !conv.ShowWelcome() {
		t.Errorf("blank input changed state: len=%d loading=%v welcome=%v", conv.Len(), conv.Loading(), conv.ShowWelcome())
	}
}

func TestEnterWhileLoadingKeepsInput(t *testing.T) {
	m := newTestModel(t, &fakeAsker{answer: "ok"})

	typeText(m, "first")
	if pressEnter(m) == nil {
		t.Fatal("first submit produced no command")
	}

	typeText(m, "second")
	if cmd := pressEnter(m); cmd != nil {
		t.Error("second submit produced a command while loading")
	}
	if m.Conversation().Len() != 1 {
		t.Errorf("len = %d, want 1", m.Conversation().Len())
	}
	if m.textarea.Value() != "second" {
		t.Errorf("input = %q, want it kept", m.textarea.Value())
	}
}

func TestAltEnterInsertsNewline(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	typeText(m, "SELECT *")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	typeText(m, "FROM users")

	if got := m.textarea.Value(); got != "SELECT *\nFROM users" {
		t.Errorf("value = %q", got)
	}
	if m.Conversation().Len() != 0 {
		t.Error("alt+enter submitted the question")
	}
	if m.textarea.Height() != 2 {
		t.Errorf("height = %d, want 2", m.textarea.Height())
	}
}

func TestInputHeightIsCapped(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	m.textarea.SetValue(strings.Repeat("line\n", 10) + "end")
	m.afterInputChange()

	if m.textarea.Height() != maxInputHeight {
		t.Errorf("height = %d, want %d", m.textarea.Height(), maxInputHeight)
	}

	m.resetInput()
	if m.textarea.Height() != minInputHeight {
		t.Errorf("height after reset = %d, want %d", m.textarea.Height(), minInputHeight)
	}
}

func TestInputGrowsWithWrappedText(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	width := m.textarea.Width()

	typeText(m, strings.Repeat("a", 2*width+5))
	if got := m.textarea.Height(); got != 3 {
		t.Errorf("height = %d with %d columns, want 3 wrapped rows", got, width)
	}

	typeText(m, strings.Repeat("b", 216))
	if got := m.textarea.Height(); got != maxInputHeight {
		t.Errorf("height = %d, want %d", got, maxInputHeight)
	}
}

func TestInputRows(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  int
	}{
		{"", 20, 1},
		{"short", 20, 1},
		{strings.Repeat("x", 19), 20, 1},
		{strings.Repeat("x", 20), 20, 2},
		{strings.Repeat("x", 45), 20, 3},
		{"a\nb\n" + strings.Repeat("x", 25), 20, 4},
		{"a\nb", 0, 2},
	}

	for _, tt := range tests {
		if got := inputRows(tt.value, tt.width); got != tt.want {
			t.Errorf("inputRows(%d chars, %d) = %d, want %d", len(tt.value), tt.width, got, tt.want)
		}
	}
}

func TestAnswerShownVerbatim(t *testing.T) {
	answer := "SELECT * FROM users WHERE name = '*admin*';"
	m := newTestModel(t, &fakeAsker{answer: answer})

	typeText(m, "Find the admin")
	deliverAnswer(t, m, pressEnter(m))

	if !strings.Contains(m.View(), answer) {
		t.Errorf("view does not contain the answer verbatim")
	}
}

func TestSuggestionNavigation(t *testing.T) {
	asker := &fakeAsker{answer: "done"}
	m := newTestModel(t, asker)
	suggestions := chat.Suggestions()

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSuggestions {
		t.Fatal("tab did not focus the examples")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}

	deliverAnswer(t, m, pressEnter(m))

	if m.focus != focusInput {
		t.Error("focus not returned to input")
	}
	if len(asker.questions) != 1 || asker.questions[0] != suggestions[1].Text {
		t.Errorf("asker got %q, want %q", asker.questions, suggestions[1].Text)
	}
	if msgs := m.Conversation().Messages(); msgs[0].Text != suggestions[1].Text {
		t.Errorf("user message = %q", msgs[0].Text)
	}
}

func TestSuggestionWrapsAround(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != len(m.suggestions)-1 {
		t.Errorf("selected = %d, want last", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusInput {
		t.Error("esc did not return to input")
	}
}

func TestSuggestionDigitAsks(t *testing.T) {
	asker := &fakeAsker{answer: "done"}
	m := newTestModel(t, asker)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	deliverAnswer(t, m, cmd)

	if want := chat.Suggestions()[2].Text; len(asker.questions) != 1 || asker.questions[0] != want {
		t.Errorf("asker got %q, want %q", asker.questions, want)
	}
}

func TestTabIgnoredAfterWelcomeHidden(t *testing.T) {
	m := newTestModel(t, &fakeAsker{answer: "ok"})
	typeText(m, "hi")
	deliverAnswer(t, m, pressEnter(m))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusInput {
		t.Error("tab focused examples without the welcome panel")
	}
}

func TestClearShortcut(t *testing.T) {
	m := newTestModel(t, &fakeAsker{answer: "ok"})
	typeText(m, "hi")
	deliverAnswer(t, m, pressEnter(m))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	conv := m.Conversation()
	if conv.Len() != 0 || !conv.ShowWelcome() {
		t.Errorf("after clear: len=%d welcome=%v", conv.Len(), conv.ShowWelcome())
	}
	if !strings.Contains(m.View(), "Welcome to SQL Assistant!") {
		t.Error("welcome panel not shown after clear")
	}
}

func TestClearCommand(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	m := newTestModel(t, asker)
	typeText(m, "hi")
	deliverAnswer(t, m, pressEnter(m))

	typeText(m, "/clear")
	if cmd := pressEnter(m); cmd != nil {
		t.Error("/clear produced a command")
	}
	if m.Conversation().Len() != 0 {
		t.Errorf("len = %d after /clear", m.Conversation().Len())
	}
	if len(asker.questions) != 1 {
		t.Errorf("/clear was sent to the backend: %q", asker.questions)
	}
	if m.textarea.Value() != "" {
		t.Errorf("input not reset: %q", m.textarea.Value())
	}
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.Conversation().Theme() != chat.ThemeDark {
		t.Fatalf("theme = %s, want dark", m.Conversation().Theme())
	}
	if !strings.Contains(m.View(), "Light (ctrl+t)") {
		t.Error("header does not offer the light theme")
	}

	typeText(m, "/theme")
	pressEnter(m)
	if m.Conversation().Theme() != chat.ThemeLight {
		t.Errorf("theme = %s after /theme, want light", m.Conversation().Theme())
	}
}

func TestQuitCancelsInFlightRequest(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
	if m.ctx.Err() == nil {
		t.Error("request context not cancelled")
	}
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})

	typeText(m, "/exit")
	cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("/exit produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("/exit did not quit")
	}
}

func TestSpinnerTickIgnoredWhenIdle(t *testing.T) {
	m := newTestModel(t, &fakeAsker{})
	if _, cmd := m.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("idle spinner tick scheduled another tick")
	}
}
