package tui

import (
	"regexp"
	"strings"
)

// CommandType 命令类型
type CommandType int

const (
	CommandTypeUnknown CommandType = iota
	CommandTypeClear
	CommandTypeTheme
	CommandTypeHelp
	CommandTypeQuit
)

// Command 解析后的命令
type Command struct {
	Type CommandType
	Raw  string
}

// CommandParser 识别输入框里的斜杠命令，其余输入都按问题处理
type CommandParser struct {
	patterns map[CommandType]*regexp.Regexp
}

// NewCommandParser 创建新的命令解析器
func NewCommandParser() *CommandParser {
	return &CommandParser{
		patterns: map[CommandType]*regexp.Regexp{
			CommandTypeClear: regexp.MustCompile(`(?i)^/clear$`),
			CommandTypeTheme: regexp.MustCompile(`(?i)^/theme$`),
			CommandTypeHelp:  regexp.MustCompile(`(?i)^/help$`),
			CommandTypeQuit:  regexp.MustCompile(`(?i)^/(quit|exit)$`),
		},
	}
}

// Parse 解析命令字符串，不是命令时返回 nil
func (p *CommandParser) Parse(input string) *Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	for cmdType, pattern := range p.patterns {
		if pattern.MatchString(input) {
			return &Command{Type: cmdType, Raw: input}
		}
	}
	return nil
}

// FormatCommandType 格式化命令类型为字符串
func FormatCommandType(cmdType CommandType) string {
	switch cmdType {
	case CommandTypeClear:
		return "CLEAR"
	case CommandTypeTheme:
		return "THEME"
	case CommandTypeHelp:
		return "HELP"
	case CommandTypeQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}
