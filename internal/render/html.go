package render

import (
	"fmt"
	"html"
	"strings"

	"vibrantResume/internal/markdown"
)

// renderInlineHTML 将一行 Markdown 的行内片段转为 HTML。
func renderInlineHTML(text string) string {
	var b strings.Builder
	for _, part := range markdown.ParseInline(text) {
		switch part.Kind {
		case markdown.InlineBold:
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(part.Text))
			b.WriteString("</strong>")
		case markdown.InlineLink:
			b.WriteString(`<a href="`)
			b.WriteString(html.EscapeString(part.Href))
			b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
			b.WriteString(html.EscapeString(part.Text))
			b.WriteString("</a>")
		default:
			b.WriteString(html.EscapeString(part.Text))
		}
	}
	return b.String()
}

// styleAttr 把非空的 CSS 声明拼成 style 属性，全空时返回空串。
func styleAttr(decls ...string) string {
	kept := make([]string, 0, len(decls))
	for _, d := range decls {
		if d != "" {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ` style="` + html.EscapeString(strings.Join(kept, "; ")) + `"`
}

func alignClass(a string) string {
	switch a {
	case "center":
		return "text-center"
	case "right":
		return "text-right"
	case "justify":
		return "text-justify"
	default:
		return "text-left"
	}
}

func headingStyle(sec *markdown.Section, level int, noBorder bool) string {
	var decls []string
	if sec != nil {
		if sec.HeadingColor != "" {
			decls = append(decls, "color: "+sec.HeadingColor)
		}
		if sec.HeadingBgColor != "" {
			decls = append(decls, "background-color: "+sec.HeadingBgColor)
			if level == 1 {
				decls = append(decls, "padding: 6px 12px", "border-radius: 4px")
			} else {
				decls = append(decls, "padding: 4px 10px", "border-radius: 4px")
			}
		}
		if sec.HeadingFontSize > 0 {
			decls = append(decls, fmt.Sprintf("font-size: %dpt", sec.HeadingFontSize))
		}
	}
	if noBorder && level == 1 {
		decls = append(decls, "border-bottom: none", "margin-bottom: 0", "padding-bottom: 0")
	}
	return styleAttr(decls...)
}

func contentStyle(sec *markdown.Section, bullet bool) string {
	var decls []string
	if sec != nil {
		if sec.ContentColor != "" {
			decls = append(decls, "color: "+sec.ContentColor)
		}
		if bullet && sec.BulletBgColor != "" {
			decls = append(decls,
				"background-color: "+sec.BulletBgColor,
				"padding: 2px 8px",
				"border-radius: 3px",
				"margin-bottom: 2px",
			)
		}
		if sec.ContentFontSize > 0 {
			decls = append(decls, fmt.Sprintf("font-size: %dpt", sec.ContentFontSize))
		}
	}
	return styleAttr(decls...)
}

// renderBody 将 Markdown 正文渲染为 HTML 片段。
// 连续的列表行合并为一个 <ul>/<ol>，缩进两格以上视为嵌套列表。
func renderBody(text string, sec *markdown.Section, noH1Border bool) string {
	lines := markdown.ParseLines(text)
	var b strings.Builder
	contentCls := ""
	if sec != nil {
		contentCls = alignClass(sec.ContentAlignment)
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		switch line.Kind {
		case markdown.LineBlank:
			i++
		case markdown.LineHeading:
			cls := ""
			if sec != nil {
				cls = alignClass(sec.HeadingAlignment)
			}
			fmt.Fprintf(&b, `<h%d class="%s"%s>%s</h%d>`,
				line.Level, cls, headingStyle(sec, line.Level, noH1Border), renderInlineHTML(line.Text), line.Level)
			i++
		case markdown.LineBullet:
			i = renderList(&b, lines, i, sec, contentCls, markdown.LineBullet, "ul")
		case markdown.LineNumbered:
			i = renderList(&b, lines, i, sec, contentCls, markdown.LineNumbered, "ol")
		default:
			fmt.Fprintf(&b, `<p class="%s"%s>%s</p>`,
				contentCls, contentStyle(sec, false), renderInlineHTML(line.Text))
			i++
		}
	}
	return b.String()
}

func renderList(b *strings.Builder, lines []markdown.Line, i int, sec *markdown.Section, cls string, kind markdown.LineKind, tag string) int {
	b.WriteString("<" + tag + ">")
	for i < len(lines) && lines[i].Kind == kind {
		if lines[i].Indent >= 2 {
			b.WriteString("<" + tag + ">")
			for i < len(lines) && lines[i].Kind == kind && lines[i].Indent >= 2 {
				writeListItem(b, lines[i], sec, cls)
				i++
			}
			b.WriteString("</" + tag + ">")
			continue
		}
		writeListItem(b, lines[i], sec, cls)
		i++
	}
	b.WriteString("</" + tag + ">")
	return i
}

func writeListItem(b *strings.Builder, line markdown.Line, sec *markdown.Section, cls string) {
	fmt.Fprintf(b, `<li class="%s"%s>%s</li>`, cls, contentStyle(sec, true), renderInlineHTML(line.Text))
}
