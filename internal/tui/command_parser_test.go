package tui

import "testing"

func TestCommandParser(t *testing.T) {
	parser := NewCommandParser()

	tests := []struct {
		input string
		want  CommandType
		isCmd bool
	}{
		{"/clear", CommandTypeClear, true},
		{"  /CLEAR  ", CommandTypeClear, true},
		{"/theme", CommandTypeTheme, true},
		{"/help", CommandTypeHelp, true},
		{"/quit", CommandTypeQuit, true},
		{"/exit", CommandTypeQuit, true},
		{"/clear now", CommandTypeUnknown, false},
		{"/unknown", CommandTypeUnknown, false},
		{"clear", CommandTypeUnknown, false},
		{"How many users?", CommandTypeUnknown, false},
		{"", CommandTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := parser.Parse(tt.input)
			if !tt.isCmd {
				if cmd != nil {
					t.Errorf("Parse(%q) = %+v, want nil", tt.input, cmd)
				}
				return
			}
			if cmd == nil || cmd.Type != tt.want {
				t.Errorf("Parse(%q) = %+v, want type %s", tt.input, cmd, FormatCommandType(tt.want))
			}
		})
	}
}

func TestFormatCommandType(t *testing.T) {
	if got := FormatCommandType(CommandTypeClear); got != "CLEAR" {
		t.Errorf("FormatCommandType(Clear) = %q", got)
	}
	if got := FormatCommandType(CommandType(99)); got != "UNKNOWN" {
		t.Errorf("FormatCommandType(99) = %q", got)
	}
}
