package markdown

import (
	"regexp"
	"strings"
)

// LineKind 标识一行 Markdown 的结构类型。
type LineKind int

const (
	LineBlank LineKind = iota
	LineHeading
	LineBullet
	LineNumbered
	LineParagraph
)

// Line 是渲染器与 DOCX 导出器共享的行级中间表示。
// 两边共用同一套解析，保证预览与导出的结构一致。
type Line struct {
	Kind   LineKind
	Level  int    // 标题级别 1-3，仅 LineHeading 有效
	Indent int    // 行首空白宽度，列表项用它区分嵌套层级
	Text   string // 去掉结构标记后的内容
}

// InlineKind 标识行内片段类型。
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineBold
	InlineLink
)

// Inline 表示一段行内内容。Link 片段的 URL 存放在 Href。
type Inline struct {
	Kind InlineKind
	Text string
	Href string
}

var numberedRe = regexp.MustCompile(`^\d+\.\s`)

// ParseLines 将 Markdown 文本逐行解析为共享 IR。
func ParseLines(text string) []Line {
	var result []Line
	for _, raw := range strings.Split(text, "\n") {
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		t := strings.TrimSpace(raw)

		switch {
		case t == "":
			result = append(result, Line{Kind: LineBlank})
		case strings.HasPrefix(t, "### "):
			result = append(result, Line{Kind: LineHeading, Level: 3, Text: strings.TrimPrefix(t, "### ")})
		case strings.HasPrefix(t, "## "):
			result = append(result, Line{Kind: LineHeading, Level: 2, Text: strings.TrimPrefix(t, "## ")})
		case strings.HasPrefix(t, "# "):
			result = append(result, Line{Kind: LineHeading, Level: 1, Text: strings.TrimPrefix(t, "# ")})
		case strings.HasPrefix(t, "- "), strings.HasPrefix(t, "* "):
			result = append(result, Line{Kind: LineBullet, Indent: indent, Text: t[2:]})
		case numberedRe.MatchString(t):
			result = append(result, Line{Kind: LineNumbered, Indent: indent, Text: numberedRe.ReplaceAllString(t, "")})
		default:
			result = append(result, Line{Kind: LineParagraph, Indent: indent, Text: t})
		}
	}
	return result
}

var linkRe = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)

// ParseInline 将一行文本切成普通、加粗与链接片段。
// 加粗使用 **...** 标记，链接使用 [text](url)。
func ParseInline(text string) []Inline {
	var parts []Inline
	last := 0
	for _, m := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			parts = append(parts, splitBold(text[last:m[0]])...)
		}
		parts = append(parts, Inline{
			Kind: InlineLink,
			Text: text[m[2]:m[3]],
			Href: text[m[4]:m[5]],
		})
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, splitBold(text[last:])...)
	}
	return parts
}

func splitBold(text string) []Inline {
	var runs []Inline
	segs := strings.Split(text, "**")
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		kind := InlineText
		if i%2 == 1 {
			kind = InlineBold
		}
		runs = append(runs, Inline{Kind: kind, Text: seg})
	}
	return runs
}
