package tui

import (
	"github.com/Zacy-Sokach/sqlassistant/internal/chat"
	"github.com/charmbracelet/lipgloss"
)

// palette 是一套主题的基础颜色
type palette struct {
	text      lipgloss.Color
	muted     lipgloss.Color
	border    lipgloss.Color
	accent    lipgloss.Color
	accentAlt lipgloss.Color
	surface   lipgloss.Color
	codeBg    lipgloss.Color
	danger    lipgloss.Color
	disabled  lipgloss.Color
}

var (
	lightPalette = palette{
		text:      lipgloss.Color("#111827"),
		muted:     lipgloss.Color("#6B7280"),
		border:    lipgloss.Color("#D1D5DB"),
		accent:    lipgloss.Color("#2563EB"),
		accentAlt: lipgloss.Color("#9333EA"),
		surface:   lipgloss.Color("#F9FAFB"),
		codeBg:    lipgloss.Color("#F3F4F6"),
		danger:    lipgloss.Color("#EF4444"),
		disabled:  lipgloss.Color("#9CA3AF"),
	}
	darkPalette = palette{
		text:      lipgloss.Color("#F9FAFB"),
		muted:     lipgloss.Color("#9CA3AF"),
		border:    lipgloss.Color("#4B5563"),
		accent:    lipgloss.Color("#60A5FA"),
		accentAlt: lipgloss.Color("#C084FC"),
		surface:   lipgloss.Color("#111827"),
		codeBg:    lipgloss.Color("#1F2937"),
		danger:    lipgloss.Color("#F87171"),
		disabled:  lipgloss.Color("#6B7280"),
	}
)

type styles struct {
	header       lipgloss.Style
	brandIcon    lipgloss.Style
	brand        lipgloss.Style
	headerButton lipgloss.Style

	welcomePanel     lipgloss.Style
	welcomeTitle     lipgloss.Style
	suggestionCell   lipgloss.Style
	suggestionActive lipgloss.Style
	category         lipgloss.Style
	emptyState       lipgloss.Style

	userBubble      lipgloss.Style
	assistantBubble lipgloss.Style
	bubbleTitle     lipgloss.Style
	timestamp       lipgloss.Style
	errorMarker     lipgloss.Style
	spinner         lipgloss.Style

	input       lipgloss.Style
	inputActive lipgloss.Style
	send        lipgloss.Style
	sendOff     lipgloss.Style

	text  lipgloss.Style
	muted lipgloss.Style

	markdown markdownStyles
}

// newStyles 按主题生成全部样式
func newStyles(theme chat.Theme) styles {
	p := lightPalette
	if theme == chat.ThemeDark {
		p = darkPalette
	}

	text := lipgloss.NewStyle().Foreground(p.text)
	muted := lipgloss.NewStyle().Foreground(p.muted)
	bubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(p.text)

	return styles{
		header: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(p.border),
		brandIcon:    lipgloss.NewStyle().Foreground(p.accentAlt).Bold(true),
		brand:        lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		headerButton: muted,

		welcomePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		welcomeTitle: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		suggestionCell: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Foreground(p.text).
			Padding(0, 1),
		suggestionActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Foreground(p.text).
			Padding(0, 1),
		category:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		emptyState: muted.Align(lipgloss.Center),

		userBubble:      bubble.BorderForeground(p.accent),
		assistantBubble: bubble.BorderForeground(p.border),
		bubbleTitle:     lipgloss.NewStyle().Foreground(p.text).Bold(true),
		timestamp:       muted,
		errorMarker:     lipgloss.NewStyle().Foreground(p.danger),
		spinner:         lipgloss.NewStyle().Foreground(p.accentAlt),

		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		inputActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		send:    lipgloss.NewStyle().Foreground(p.accentAlt).Bold(true).Padding(0, 1),
		sendOff: lipgloss.NewStyle().Foreground(p.disabled).Padding(0, 1),

		text:  text,
		muted: muted,

		markdown: markdownStyles{
			text:  text,
			code:  lipgloss.NewStyle().Foreground(p.accentAlt).Background(p.codeBg),
			muted: muted,
		},
	}
}

// themeButtonLabel 显示切换后的主题
func themeButtonLabel(theme chat.Theme) string {
	if theme == chat.ThemeDark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}
