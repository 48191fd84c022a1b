package tui

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/russross/blackfriday/v2"
)

type markdownStyles struct {
	text  lipgloss.Style
	code  lipgloss.Style
	muted lipgloss.Style
}

// 围栏代码块的起止行，最多三个空格缩进
var fenceLine = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

// renderAnswer 渲染助手回答
// 正文原样输出，SQL 里的 * _ # 等字符不能被当成 Markdown 吃掉；
// 只有围栏代码块会加上语言标签和代码样式
func renderAnswer(src string, st markdownStyles) string {
	if strings.TrimSpace(src) == "" {
		return src
	}

	var out []string
	for _, seg := range splitFences(src) {
		if seg.fenced {
			if code, ok := renderCodeBlock(seg.text, st); ok {
				out = append(out, code...)
				continue
			}
		}
		for _, line := range strings.Split(seg.text, "\n") {
			out = append(out, st.text.Render(line))
		}
	}
	return strings.Join(out, "\n")
}

type segment struct {
	text   string
	fenced bool
}

// splitFences 按围栏代码块切分文本，未闭合的围栏按普通正文处理
func splitFences(src string) []segment {
	lines := strings.Split(src, "\n")
	var segs []segment
	var prose []string

	flush := func() {
		if len(prose) > 0 {
			segs = append(segs, segment{text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		open := fenceLine.FindStringSubmatch(lines[i])
		if open == nil {
			prose = append(prose, lines[i])
			continue
		}
		end := closingFence(lines, i+1, open[1])
		if end < 0 {
			prose = append(prose, lines[i])
			continue
		}
		flush()
		segs = append(segs, segment{text: strings.Join(lines[i:end+1], "\n"), fenced: true})
		i = end
	}
	flush()
	return segs
}

func closingFence(lines []string, from int, marker string) int {
	for j := from; j < len(lines); j++ {
		m := fenceLine.FindStringSubmatch(lines[j])
		if m == nil || m[1][0] != marker[0] || len(m[1]) < len(marker) {
			continue
		}
		if strings.TrimSpace(lines[j][len(m[0]):]) == "" {
			return j
		}
	}
	return -1
}

// renderCodeBlock 用 blackfriday 解析一个围栏代码块，返回带样式的行
func renderCodeBlock(block string, st markdownStyles) ([]string, bool) {
	doc := blackfriday.New(blackfriday.WithExtensions(blackfriday.FencedCode)).Parse([]byte(block))

	var code *blackfriday.Node
	doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && node.Type == blackfriday.CodeBlock && node.CodeBlockData.IsFenced {
			code = node
			return blackfriday.Terminate
		}
		return blackfriday.GoToNext
	})
	if code == nil {
		return nil, false
	}

	var lines []string
	if lang := bytes.TrimSpace(code.CodeBlockData.Info); len(lang) > 0 {
		lines = append(lines, st.muted.Render(string(lang)))
	}
	body := strings.TrimSuffix(string(code.Literal), "\n")
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, "  "+st.code.Render(line))
	}
	return lines, true
}
