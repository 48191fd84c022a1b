package chat

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status 只出现在助手消息上
type Status string

const (
	StatusNone    Status = ""
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusPending Status = "pending"
)

// FallbackAnswer 是任何失败时展示的固定文本
const FallbackAnswer = "Something went wrong. Please try again."

// Message 创建后不再修改
type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time
	Status    Status
}

func (m Message) IsError() bool {
	return m.Role == RoleAssistant && m.Status == StatusError
}

// FormatTime 把时间格式化为 时:分
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme 解析配置里的主题，未知值回退到浅色
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
