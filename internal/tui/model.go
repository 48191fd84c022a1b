package tui

import (
	"context"
	"strings"

	"github.com/Zacy-Sokach/sqlassistant/internal/chat"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// Version 是当前版本，由 main 包设置
var Version = "dev"

const (
	minInputHeight = 1
	maxInputHeight = 6
	maxContentWide = 100
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSuggestions
)

// Model 是聊天界面，独占一个 chat.Conversation
type Model struct {
	conv   *chat.Conversation
	asker  chat.Asker
	logger *zap.Logger

	// 退出时取消进行中的请求
	ctx    context.Context
	cancel context.CancelFunc

	viewport      viewport.Model
	textarea      textarea.Model
	spinner       spinner.Model
	help          help.Model
	keys          keyMap
	commandParser *CommandParser
	styles        styles

	suggestions []chat.Suggestion
	selected    int
	focus       focusArea
	expanded    bool

	ready         bool
	width, height int
}

func NewModel(conv *chat.Conversation, asker chat.Asker, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about your database..."
	ta.Focus()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(minInputHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		conv:          conv,
		asker:         asker,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		viewport:      vp,
		textarea:      ta,
		spinner:       sp,
		help:          help.New(),
		keys:          defaultKeyMap(),
		commandParser: NewCommandParser(),
		suggestions:   chat.Suggestions(),
	}
	m.applyTheme()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		// 宽度变了，折行后的行数也可能变
		m.afterInputChange()
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case answerMsg:
		return m, m.settle(msg)

	case spinner.TickMsg:
		if !m.conv.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd
	}

	if m.focus == focusInput {
		before := m.textarea.Value()
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		if m.textarea.Value() != before {
			m.expanded = m.textarea.Value() != ""
		}
		m.afterInputChange()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey 处理全局快捷键，返回 false 时按键继续交给输入框和视口
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return nil, true
	case key.Matches(msg, m.keys.Clear):
		m.clear()
		return nil, true
	}

	if m.focus == focusSuggestions {
		return m.handleSuggestionKey(msg), true
	}

	switch {
	case key.Matches(msg, m.keys.Examples) && m.conv.ShowWelcome():
		m.setFocus(focusSuggestions)
		return nil, true
	case key.Matches(msg, m.keys.Send):
		return m.submitInput(), true
	}
	return nil, false
}

func (m *Model) handleSuggestionKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % len(m.suggestions)
	case key.Matches(msg, m.keys.Back):
		m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Send):
		return m.useSuggestion(m.selected)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(m.suggestions) {
			return m.useSuggestion(n)
		}
	}
	m.refresh(false)
	return nil
}

func (m *Model) useSuggestion(i int) tea.Cmd {
	m.selected = i
	m.setFocus(focusInput)
	return m.submit(m.suggestions[i].Text)
}

// submitInput 发送输入框内容，斜杠命令在这里拦截
func (m *Model) submitInput() tea.Cmd {
	value := m.textarea.Value()
	if cmd := m.commandParser.Parse(value); cmd != nil {
		m.resetInput()
		return m.handleCommand(cmd)
	}
	return m.submit(value)
}

// submit 追加用户消息并发起请求；空输入或已有请求时什么都不做
func (m *Model) submit(text string) tea.Cmd {
	question, err := m.conv.Submit(text)
	if err != nil {
		m.logger.Debug("submission ignored", zap.Error(err))
		return nil
	}

	m.resetInput()
	m.logger.Info("question submitted", zap.String("question", question))
	m.refresh(true)

	return tea.Batch(m.spinner.Tick, m.ask(question))
}

func (m *Model) ask(question string) tea.Cmd {
	ctx, asker := m.ctx, m.asker
	return func() tea.Msg {
		answer, err := asker.Ask(ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m *Model) settle(msg answerMsg) tea.Cmd {
	reply := m.conv.Settle(msg.answer, msg.err)
	if msg.err != nil {
		m.logger.Warn("question failed", zap.String("question", msg.question), zap.Error(msg.err))
	} else {
		m.logger.Info("question answered",
			zap.String("question", msg.question),
			zap.Int("answer_length", len(reply.Text)))
	}
	m.refresh(true)
	return nil
}

func (m *Model) handleCommand(cmd *Command) tea.Cmd {
	m.logger.Debug("command", zap.String("type", FormatCommandType(cmd.Type)))
	switch cmd.Type {
	case CommandTypeClear:
		m.clear()
	case CommandTypeTheme:
		m.toggleTheme()
	case CommandTypeHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		m.refresh(false)
	case CommandTypeQuit:
		return m.quit()
	}
	return nil
}

func (m *Model) clear() {
	m.conv.Clear()
	m.selected = 0
	m.logger.Info("conversation cleared")
	m.refresh(true)
}

func (m *Model) toggleTheme() {
	theme := m.conv.ToggleTheme()
	m.logger.Debug("theme toggled", zap.String("theme", string(theme)))
	m.applyTheme()
	m.refresh(false)
}

func (m *Model) quit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.logger.Info("quitting", zap.Int("messages", m.conv.Len()))
	return tea.Quit
}

// applyTheme 重新生成样式并同步到子组件
func (m *Model) applyTheme() {
	m.styles = newStyles(m.conv.Theme())
	m.spinner.Style = m.styles.spinner

	for _, s := range []*textarea.Style{&m.textarea.FocusedStyle, &m.textarea.BlurredStyle} {
		s.Base = m.styles.text
		s.Text = m.styles.text
		s.CursorLine = m.styles.text
		s.Placeholder = m.styles.muted
		s.EndOfBuffer = m.styles.muted
	}

	m.help.Styles.ShortKey = m.styles.text.Bold(true)
	m.help.Styles.ShortDesc = m.styles.muted
	m.help.Styles.ShortSeparator = m.styles.muted
	m.help.Styles.FullKey = m.styles.text.Bold(true)
	m.help.Styles.FullDesc = m.styles.muted
	m.help.Styles.FullSeparator = m.styles.muted
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	// 与网页版一致：聚焦时高亮，失焦后只在有内容时高亮
	m.expanded = f == focusInput || m.textarea.Value() != ""
	m.refresh(false)
}

func (m *Model) resetInput() {
	m.textarea.Reset()
	m.expanded = m.focus == focusInput
	m.afterInputChange()
}

// afterInputChange 让输入框高度跟随折行后的可见行数，最多 maxInputHeight 行
func (m *Model) afterInputChange() {
	h := min(max(inputRows(m.textarea.Value(), m.textarea.Width()), minInputHeight), maxInputHeight)
	if h != m.textarea.Height() {
		m.textarea.SetHeight(h)
		m.resize()
	}
}

// inputRows 估算文本在 width 列宽下折行后的行数
// 光标在行尾时会占一格，写满一行时多算一行
func inputRows(value string, width int) int {
	if width <= 0 {
		return strings.Count(value, "\n") + 1
	}
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		rows += runewidth.StringWidth(line)/width + 1
	}
	return rows
}

// resize 根据窗口和页眉页脚高度重新分配视口
func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.help.Width = max(m.width-lipgloss.Width(poweredBy)-1, 10)
	m.textarea.SetWidth(max(m.width-inputChrome-sendWidth, 10))

	bodyHeight := m.height - lipgloss.Height(m.headerView()) - lipgloss.Height(m.footerView())
	m.viewport.Width = m.width
	m.viewport.Height = max(bodyHeight, 1)
}

// refresh 重新渲染消息列表，follow 为 true 时滚动到底部
func (m *Model) refresh(follow bool) {
	m.keys.Examples.SetEnabled(m.conv.ShowWelcome())

	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.conversationView())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// Conversation 暴露底层对话，测试和调用方只读使用
func (m *Model) Conversation() *chat.Conversation {
	return m.conv
}
