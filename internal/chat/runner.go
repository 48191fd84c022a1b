package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// AssistantName 是助手消息的显示名
const AssistantName = "SQL Assistant"

// RunLines 逐行读取问题并打印回答，用于非交互终端
// 空行忽略，/clear 清空对话，读到 EOF 或 ctx 取消时返回
func RunLines(ctx context.Context, r io.Reader, w io.Writer, conv *Conversation, asker Asker) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "/clear" {
			conv.Clear()
			continue
		}

		msg, err := conv.Ask(ctx, asker, line)
		if errors.Is(err, ErrEmptyQuestion) {
			continue
		}
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, FormatPlain(msg)); err != nil {
			return fmt.Errorf("写入输出失败: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}
	return nil
}

// FormatPlain 把消息格式化为一行纯文本
func FormatPlain(msg Message) string {
	name := "You"
	if msg.Role == RoleAssistant {
		name = AssistantName
	}
	text := fmt.Sprintf("[%s] %s: %s", FormatTime(msg.Timestamp), name, msg.Text)
	if msg.IsError() {
		text += " (Error: Unable to process request)"
	}
	return text
}
