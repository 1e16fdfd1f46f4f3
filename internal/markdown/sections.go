package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Section 表示简历中的一个可独立编辑的区块。
// Content 为该区块的 Markdown 原文（含标题行）。
type Section struct {
	ID               string  `json:"id"`
	Content          string  `json:"content"`
	TwoColumn        bool    `json:"two_column,omitempty"`
	HideMarkers      bool    `json:"hide_markers,omitempty"`
	HeadingAlignment string  `json:"heading_alignment,omitempty"`
	ContentAlignment string  `json:"content_alignment,omitempty"`
	HeadingColor     string  `json:"heading_color,omitempty"`
	HeadingBgColor   string  `json:"heading_bg_color,omitempty"`
	ContentColor     string  `json:"content_color,omitempty"`
	BulletBgColor    string  `json:"bullet_bg_color,omitempty"`
	LineSpacing      float64 `json:"line_spacing,omitempty"`
	SectionGap       int     `json:"section_gap,omitempty"`
	HeadingFontSize  int     `json:"heading_font_size,omitempty"`
	ContentFontSize  int     `json:"content_font_size,omitempty"`
}

var (
	splitHeadingRe   = regexp.MustCompile(`^#{1,2}\s`)
	anyHeadingRe     = regexp.MustCompile(`^#{1,3}\s`)
	headingLineRe    = regexp.MustCompile(`(?m)^(#{1,3}\s+.+)`)
	headingLabelRe   = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)`)
	leadingHeadingRe = regexp.MustCompile(`^#{1,3}\s+.+\n?`)
)

// Split 将 Markdown 文档切分为区块。
// 每遇到一级或二级标题行且已有累积内容时开启新区块；
// 无标题的文档整体作为单个区块返回。
func Split(md string) []Section {
	lines := strings.Split(md, "\n")
	var sections []Section
	var current []string
	idx := 0

	for _, line := range lines {
		if splitHeadingRe.MatchString(line) && len(current) > 0 {
			sections = append(sections, Section{
				ID:      sectionID(idx),
				Content: strings.TrimSpace(strings.Join(current, "\n")),
			})
			idx++
			current = []string{line}
		} else {
			current = append(current, line)
		}
	}

	if strings.TrimSpace(strings.Join(current, "")) != "" {
		sections = append(sections, Section{
			ID:      sectionID(idx),
			Content: strings.TrimSpace(strings.Join(current, "\n")),
		})
	}

	return sections
}

// Serialize 将区块按顺序拼回 Markdown 文档，区块之间以一个空行分隔。
func Serialize(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// ExtractHeading 返回区块内首个 1-3 级标题行（含 # 标记），没有则返回空串。
func ExtractHeading(content string) string {
	if m := headingLineRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// HeadingLabel 返回首个标题的纯文本，用于历史快照等展示场景。
func HeadingLabel(content string) string {
	if m := headingLabelRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// StripLeadingHeading 去掉区块开头的标题行，返回正文。
func StripLeadingHeading(content string) string {
	return leadingHeadingRe.ReplaceAllString(content, "")
}

// SplitForColumns 将区块正文（去掉首个标题后的行）平分为左右两列。
// 行数为奇数时左列多一行。
func SplitForColumns(content string) (left, right string) {
	lines := strings.Split(content, "\n")
	body := make([]string, 0, len(lines))
	pastHeading := false
	for _, l := range lines {
		if !pastHeading && anyHeadingRe.MatchString(l) {
			pastHeading = true
			continue
		}
		body = append(body, l)
	}
	mid := (len(body) + 1) / 2
	return strings.Join(body[:mid], "\n"), strings.Join(body[mid:], "\n")
}

// SplitBodyForColumns 与 SplitForColumns 类似，但先丢弃空白行再分列。
// DOCX 导出走这条路径，避免表格单元格里出现成片空段落。
func SplitBodyForColumns(content string) (heading, left, right string) {
	heading = ExtractHeading(content)
	body := StripLeadingHeading(content)
	lines := make([]string, 0)
	for _, l := range strings.Split(body, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	mid := (len(lines) + 1) / 2
	return heading, strings.Join(lines[:mid], "\n"), strings.Join(lines[mid:], "\n")
}

func sectionID(idx int) string {
	return "section-" + strconv.Itoa(idx)
}
