package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/theme"
)

var safeIDRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

func safeID(id string) string {
	s := safeIDRe.ReplaceAllString(id, "")
	if s == "" {
		return "default"
	}
	return s
}

// renderSectionBlock 渲染一个区块连同其作用域样式。
// first 为 true 时在标题下插入联系栏与分隔线，并按配置放置头像。
func renderSectionBlock(sec markdown.Section, first bool, doc resume.Document, bundle theme.Bundle, pic *theme.ProfilePic) string {
	id := safeID(sec.ID)
	var b strings.Builder

	if sec.LineSpacing > 0 {
		fmt.Fprintf(&b,
			"<style>.ls-%s p, .ls-%s li, .ls-%s h1, .ls-%s h2, .ls-%s h3 { line-height: %g !important; }</style>",
			id, id, id, id, id, sec.LineSpacing)
	}
	if sec.HideMarkers {
		fmt.Fprintf(&b,
			"<style>.nm-%s ul { list-style: none !important; padding-left: 0 !important; }\n"+
				".nm-%s li::before { content: none !important; display: none !important; }\n"+
				".nm-%s li { padding-left: 0 !important; }\n"+
				".nm-%s h3::before { content: none !important; display: none !important; }</style>",
			id, id, id, id)
	}

	classes := make([]string, 0, 2)
	if sec.LineSpacing > 0 {
		classes = append(classes, "ls-"+id)
	}
	if sec.HideMarkers {
		classes = append(classes, "nm-"+id)
	}
	gap := ""
	if sec.SectionGap > 0 {
		gap = fmt.Sprintf("margin-top: %dpx", sec.SectionGap)
	}
	fmt.Fprintf(&b, `<div class="section %s"%s>`, strings.Join(classes, " "), styleAttr(gap))

	b.WriteString(renderSectionHeader(sec, first, doc, bundle, pic))

	body := markdown.StripLeadingHeading(sec.Content)
	if sec.TwoColumn {
		left, right := markdown.SplitForColumns(sec.Content)
		cls := alignClass(sec.ContentAlignment)
		fmt.Fprintf(&b, `<div class="two-col"><div class="%s">%s</div><div class="%s">%s</div></div>`,
			cls, renderBody(left, &sec, false), cls, renderBody(right, &sec, false))
	} else {
		fmt.Fprintf(&b, `<div class="%s">%s</div>`, alignClass(sec.ContentAlignment), renderBody(body, &sec, false))
	}

	b.WriteString("</div>")
	return b.String()
}

// renderSectionHeader 渲染区块标题。首个区块在标题后插入联系栏，
// 此时抑制 H1 自带的下边框，用联系栏下方的分隔线代替。
func renderSectionHeader(sec markdown.Section, first bool, doc resume.Document, bundle theme.Bundle, pic *theme.ProfilePic) string {
	heading := markdown.ExtractHeading(sec.Content)
	hasContact := first && !doc.ContactInfo.Empty()

	var inner strings.Builder
	if heading != "" {
		inner.WriteString(renderBody(heading, &sec, hasContact))
	}
	if hasContact {
		inner.WriteString(renderContactBar(doc.ContactInfo, doc.ContactAlignment))
		fmt.Fprintf(&inner, `<div class="separator" style="border-color: %s"></div>`, html.EscapeString(bundle.SeparatorColor))
	}

	sideBySide := first && pic != nil && pic.URL != "" &&
		(pic.Position == "inline-left" || pic.Position == "inline-right" ||
			pic.Position == "top-left" || pic.Position == "top-right")
	if sideBySide {
		rowCls := "pic-row"
		if pic.Position == "inline-right" || pic.Position == "top-right" {
			rowCls = "pic-row reverse"
		}
		size := pic.Size
		if size <= 0 {
			size = 80
		}
		shape := "8px"
		if pic.Shape == "circle" {
			shape = "9999px"
		}
		return fmt.Sprintf(
			`<div class="%s"><img src="%s" alt="Profile" style="width: %dpx; height: %dpx; border-radius: %s; transform: translateY(%dpx)"/><div class="pic-main %s">%s</div></div>`,
			rowCls, html.EscapeString(pic.URL), size, size, shape, pic.OffsetY,
			alignClass(sec.HeadingAlignment), inner.String())
	}

	return fmt.Sprintf(`<div class="%s">%s</div>`, alignClass(sec.HeadingAlignment), inner.String())
}

type contactPart struct {
	label string
	href  string
}

// renderContactBar 渲染页首联系栏，条目之间以圆点分隔。
func renderContactBar(info resume.ContactInfo, alignment string) string {
	parts := make([]contactPart, 0, 8)
	if info.Phone != "" {
		parts = append(parts, contactPart{label: info.Phone})
	}
	if info.Location != "" {
		parts = append(parts, contactPart{label: info.Location})
	}
	if info.Email != "" {
		parts = append(parts, contactPart{label: info.Email, href: "mailto:" + info.Email})
	}
	if info.LinkedIn != "" {
		parts = append(parts, contactPart{label: "LinkedIn", href: info.LinkedIn})
	}
	if info.GitHub != "" {
		parts = append(parts, contactPart{label: "GitHub", href: info.GitHub})
	}
	if info.Portfolio != "" {
		parts = append(parts, contactPart{label: "Portfolio", href: info.Portfolio})
	}
	if info.Website != "" {
		parts = append(parts, contactPart{label: "Website", href: info.Website})
	}
	if info.LeetCode != "" {
		parts = append(parts, contactPart{label: "LeetCode", href: info.LeetCode})
	}
	if len(parts) == 0 {
		return ""
	}

	just := "flex-start"
	switch alignment {
	case "center":
		just = "center"
	case "right":
		just = "flex-end"
	case "justify":
		just = "space-between"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="contact-bar" style="justify-content: %s">`, just)
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`<span class="contact-dot">·</span>`)
		}
		if p.href != "" {
			fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
				html.EscapeString(p.href), html.EscapeString(p.label))
		} else {
			b.WriteString("<span>" + html.EscapeString(p.label) + "</span>")
		}
	}
	b.WriteString("</div>")
	return b.String()
}

// renderTopCenterPic 渲染居中置顶的头像块，置于全部区块之前。
func renderTopCenterPic(pic *theme.ProfilePic) string {
	if pic == nil || pic.URL == "" || pic.Position != "top-center" {
		return ""
	}
	size := pic.Size
	if size <= 0 {
		size = 96
	}
	shape := "12px"
	if pic.Shape == "circle" {
		shape = "9999px"
	}
	return fmt.Sprintf(
		`<div class="pic-top" style="transform: translateY(%dpx)"><img src="%s" alt="Profile" style="width: %dpx; height: %dpx; border-radius: %s"/></div>`,
		pic.OffsetY, html.EscapeString(pic.URL), size, size, shape)
}
