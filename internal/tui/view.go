package tui

import (
	"fmt"
	"strings"

	"github.com/Zacy-Sokach/sqlassistant/internal/chat"
	"github.com/charmbracelet/lipgloss"
)

const (
	sendLabel = "Send ⏎"
	poweredBy = "Powered by AI </>"

	// 输入框边框和内边距占用的列数
	inputChrome = 4

	// 两列示例问题需要的最小内容宽度
	twoColumnWidth = 80
)

var sendWidth = lipgloss.Width(sendLabel) + 3

func (m *Model) View() string {
	if !m.ready {
		return "Starting SQL Assistant..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m *Model) headerView() string {
	st := m.styles
	left := st.brandIcon.Render("◆") + " " + st.brand.Render(chat.AssistantName) +
		st.muted.Render(" "+Version)
	right := st.headerButton.Render(themeButtonLabel(m.conv.Theme())+" (ctrl+t)") +
		"   " +
		st.headerButton.Render("🗑 Clear chat (ctrl+l)")

	inner := m.width - st.header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return st.header.Width(max(m.width-st.header.GetHorizontalBorderSize(), 1)).
		Render(left + strings.Repeat(" ", gap) + right)
}

// contentWidth 是消息列的宽度，宽屏时居中限宽
func (m *Model) contentWidth() int {
	return max(min(m.width-2, maxContentWide), 20)
}

// conversationView 渲染视口内的全部内容
func (m *Model) conversationView() string {
	width := m.contentWidth()
	var blocks []string

	if m.conv.ShowWelcome() {
		blocks = append(blocks, m.welcomeView(width))
	}
	if m.conv.IsEmptyState() {
		blocks = append(blocks, m.emptyStateView(width))
	}
	for _, msg := range m.conv.Messages() {
		blocks = append(blocks, m.bubbleView(msg, width))
	}
	if m.conv.Loading() {
		blocks = append(blocks, m.loadingView())
	}

	for i, b := range blocks {
		blocks[i] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
			lipgloss.NewStyle().Width(width).Render(b))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) welcomeView(width int) string {
	st := m.styles
	panel := st.welcomePanel
	inner := width - panel.GetHorizontalFrameSize()

	columns := 1
	if inner >= twoColumnWidth {
		columns = 2
	}
	cellWidth := (inner-(columns-1))/columns - st.suggestionCell.GetHorizontalBorderSize()
	cells := make([]string, len(m.suggestions))
	for i, s := range m.suggestions {
		active := m.focus == focusSuggestions && i == m.selected
		cellStyle := st.suggestionCell
		if active {
			cellStyle = st.suggestionActive
		}
		cells[i] = cellStyle.Width(cellWidth).Render(suggestionContent(st, s, i, active))
	}

	var rows []string
	for i := 0; i < len(cells); i += columns {
		end := min(i+columns, len(cells))
		row := cells[i:end]
		if len(row) == 2 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row[0], " ", row[1]))
		} else {
			rows = append(rows, row[0])
		}
	}

	hint := "Press tab to browse the examples, or type your own question."
	if m.focus == focusSuggestions {
		hint = "↑/↓ to choose • enter or 1-6 to ask • esc to go back"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		st.welcomeTitle.Render("Welcome to SQL Assistant!"),
		st.muted.Render("Ask me anything about your database or try one of these examples:"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		st.muted.Render(hint),
	)
	return panel.Width(width - panel.GetHorizontalBorderSize()).Render(body)
}

func suggestionContent(st styles, s chat.Suggestion, i int, active bool) string {
	marker := "›"
	if active {
		marker = "▸"
	}
	return st.category.Render(fmt.Sprintf("%s %d  %s", marker, i+1, s.Category)) + "\n" + s.Text
}

func (m *Model) emptyStateView(width int) string {
	return m.styles.emptyState.Width(width).Render(
		"💬\n\nNo messages yet. Ask something about your database!")
}

// bubbleView 渲染一条消息气泡，用户消息靠右，助手消息靠左
func (m *Model) bubbleView(msg chat.Message, width int) string {
	st := m.styles

	title := "You"
	style := st.userBubble
	body := msg.Text
	if msg.Role == chat.RoleAssistant {
		title = st.brandIcon.Render("◆") + " " + chat.AssistantName
		style = st.assistantBubble
		if msg.IsError() {
			body = msg.Text + "\n" + st.errorMarker.Render("⚠ Error: Unable to process request")
		} else {
			body = renderAnswer(msg.Text, st.markdown)
		}
	}
	title = st.bubbleTitle.Render(title)
	stamp := st.timestamp.Render(chat.FormatTime(msg.Timestamp))

	frame := style.GetHorizontalFrameSize()
	maxInner := max(width*3/4-frame, 10)
	inner := max(lipgloss.Width(body), lipgloss.Width(title)+lipgloss.Width(stamp)+2)
	inner = min(inner, maxInner)

	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(stamp), 1)
	content := title + strings.Repeat(" ", gap) + stamp + "\n" + body

	bubble := style.Width(inner + style.GetHorizontalPadding()).Render(content)

	align := lipgloss.Left
	if msg.Role == chat.RoleUser {
		align = lipgloss.Right
	}
	return lipgloss.PlaceHorizontal(width, align, bubble)
}

func (m *Model) loadingView() string {
	return m.styles.assistantBubble.Render(m.spinner.View() + " Generating response...")
}

func (m *Model) footerView() string {
	st := m.styles

	box := st.input
	if m.expanded {
		box = st.inputActive
	}
	input := box.Render(m.textarea.View())

	send := st.sendOff.Render(sendLabel)
	if !m.conv.Loading() && strings.TrimSpace(m.textarea.Value()) != "" {
		send = st.send.Render(sendLabel)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, input, " ", send)

	var helpView string
	if m.focus == focusSuggestions {
		helpView = m.help.View(suggestionKeys(m.keys))
	} else {
		helpView = m.help.View(inputKeys(m.keys))
	}
	powered := st.muted.Render(poweredBy)
	gap := max(m.width-lipgloss.Width(helpView)-lipgloss.Width(powered), 1)
	hints := lipgloss.JoinHorizontal(lipgloss.Bottom, helpView, strings.Repeat(" ", gap), powered)

	return lipgloss.JoinVertical(lipgloss.Left, row, hints)
}
