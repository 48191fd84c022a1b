package chat

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyQuestion   = errors.New("问题为空")
	ErrRequestInFlight = errors.New("上一个问题还在等待回答")
)

// Asker 把问题交给后端并返回答案
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Conversation 是对话状态的唯一所有者
//
// 一次提问分两步：Submit 同步追加用户消息并进入 loading，
// Settle 在请求结束后追加唯一一条助手消息并退出 loading。
// loading 期间的 Submit 会被拒绝，所以同一时间最多只有一个请求。
type Conversation struct {
	messages    []Message
	loading     bool
	showWelcome bool
	theme       Theme
	now         func() time.Time
}

func NewConversation(theme Theme) *Conversation {
	return &Conversation{
		messages:    []Message{},
		showWelcome: true,
		theme:       theme,
		now:         time.Now,
	}
}

// SetClock 替换时间来源，测试用
func (c *Conversation) SetClock(now func() time.Time) {
	c.now = now
}

// Submit 追加用户消息并返回要发送的去空白问题
func (c *Conversation) Submit(text string) (string, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if c.loading {
		return "", ErrRequestInFlight
	}

	c.messages = append(c.messages, Message{
		Role:      RoleUser,
		Text:      text,
		Timestamp: c.now(),
	})
	c.showWelcome = false
	c.loading = true
	return question, nil
}

// Settle 追加请求结果对应的助手消息，err 非空时使用固定的失败文本
func (c *Conversation) Settle(answer string, err error) Message {
	msg := Message{
		Role:      RoleAssistant,
		Text:      answer,
		Timestamp: c.now(),
		Status:    StatusSuccess,
	}
	if err != nil {
		msg.Text = FallbackAnswer
		msg.Status = StatusError
	}

	c.messages = append(c.messages, msg)
	c.loading = false
	return msg
}

// Ask 同步完成一次完整的提问，非交互模式使用
func (c *Conversation) Ask(ctx context.Context, asker Asker, text string) (Message, error) {
	question, err := c.Submit(text)
	if err != nil {
		return Message{}, err
	}
	answer, askErr := asker.Ask(ctx, question)
	return c.Settle(answer, askErr), nil
}

// Clear 丢弃全部消息并重新显示欢迎面板，不影响进行中的请求
func (c *Conversation) Clear() {
	c.messages = []Message{}
	c.showWelcome = true
}

func (c *Conversation) ToggleTheme() Theme {
	c.theme = c.theme.Toggle()
	return c.theme
}

// Messages 返回消息列表的副本
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int          { return len(c.messages) }
func (c *Conversation) Loading() bool     { return c.loading }
func (c *Conversation) ShowWelcome() bool { return c.showWelcome }
func (c *Conversation) Theme() Theme      { return c.theme }

// IsEmptyState 对应“暂无消息”占位：没有消息且欢迎面板已隐藏
func (c *Conversation) IsEmptyState() bool {
	return len(c.messages) == 0 && !c.showWelcome
}
