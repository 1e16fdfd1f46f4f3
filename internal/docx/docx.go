package docx

import (
	"fmt"
	"net/http"
	"strings"

	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/theme"
)

// Input 汇集生成 DOCX 所需的数据。
// PicData 为预先取回的头像字节，取图失败时传 nil 走纯文字排版。
type Input struct {
	Doc     resume.Document
	Bundle  theme.Bundle
	Pic     *theme.ProfilePic
	PicData []byte
}

// 字号使用 Word 的半点单位。
const (
	sizeH1      = 32
	sizeH2      = 26
	sizeH3      = 22
	sizeBody    = 20
	sizeContact = 18

	colorLink       = "0563C1"
	colorContact    = "64748B"
	colorContactDot = "CBD5E1"

	defaultLineHz = 276
	emuPerPixel   = 9525
)

type builder struct {
	font   string
	bundle theme.Bundle
	caps   bool

	blocks []string
	rels   []relationship
	media  map[string][]byte
	relSeq int
	imgSeq int
}

// Build 将文档转为 DOCX 字节流。
func Build(in Input) ([]byte, error) {
	doc := in.Doc
	doc.Normalize()

	b := &builder{
		font:   primaryFontName(doc.GlobalFont),
		bundle: in.Bundle,
		caps:   in.Bundle.UppercaseHeadings,
		media:  map[string][]byte{},
	}
	b.addRel(relTypeStyles, "styles.xml", false)
	b.addRel(relTypeNumbering, "numbering.xml", false)

	if in.Pic != nil && in.PicData != nil && (in.Pic.Position == "" || in.Pic.Position == "top-center") {
		size := in.Pic.Size
		if size <= 0 {
			size = 96
		}
		b.blocks = append(b.blocks, b.centeredImageParagraph(in.PicData, size))
	}

	for idx, sec := range doc.Sections {
		gap := sec.SectionGap * 15
		switch {
		case idx == 0:
			b.firstSection(sec, gap, doc, in)
		case sec.TwoColumn:
			heading, left, right := markdown.SplitBodyForColumns(sec.Content)
			if heading != "" {
				b.blocks = append(b.blocks, b.parseLines(heading, gap, sec.LineSpacing, sec.HideMarkers)...)
			}
			b.blocks = append(b.blocks, b.twoColumnTable(
				b.parseLines(left, 0, sec.LineSpacing, sec.HideMarkers),
				b.parseLines(right, 0, sec.LineSpacing, sec.HideMarkers),
			))
		default:
			b.blocks = append(b.blocks, b.parseLines(sec.Content, gap, sec.LineSpacing, sec.HideMarkers)...)
		}
	}

	documentXML := documentHeader + "\n" + strings.Join(b.blocks, "\n") + "\n" + documentFooter
	return pack(documentXML, b.rels, b.media)
}

// firstSection 在首个区块的标题后插入联系栏；
// 头像配置为并排位置时整个区块装进无边框表格。
func (b *builder) firstSection(sec markdown.Section, gap int, doc resume.Document, in Input) {
	heading := markdown.ExtractHeading(sec.Content)
	body := markdown.StripLeadingHeading(sec.Content)

	var inner []string
	if heading != "" {
		inner = append(inner, b.parseLines(heading, gap, sec.LineSpacing, sec.HideMarkers)...)
	}
	if !doc.ContactInfo.Empty() {
		inner = append(inner, b.contactParagraph(doc.ContactInfo, doc.ContactAlignment))
	}
	if strings.TrimSpace(body) != "" {
		inner = append(inner, b.parseLines(body, 0, sec.LineSpacing, sec.HideMarkers)...)
	}

	pic := in.Pic
	sideBySide := pic != nil && in.PicData != nil &&
		(pic.Position == "inline-left" || pic.Position == "inline-right" ||
			pic.Position == "top-left" || pic.Position == "top-right")
	if sideBySide {
		size := pic.Size
		if size <= 0 {
			size = 80
		}
		imgCell := b.tableCell(fmt.Sprintf(`<w:tcW w:w="%d" w:type="dxa"/>`, size),
			[]string{b.imageParagraph(in.PicData, size, "")})
		textCell := b.tableCell(`<w:tcW w:w="5000" w:type="pct"/>`, inner)
		cells := imgCell + textCell
		if pic.Position == "inline-right" || pic.Position == "top-right" {
			cells = textCell + imgCell
		}
		b.blocks = append(b.blocks, borderlessTable("<w:tr>"+cells+"</w:tr>"))
		return
	}

	b.blocks = append(b.blocks, inner...)
}

// parseLines 把 Markdown 文本转成段落序列。
// hideMarkers 为 true 时顶层列表项改为不带项目符号的加粗段落。
func (b *builder) parseLines(text string, spacingBefore int, lineSpacing float64, hideMarkers bool) []string {
	lineHz := defaultLineHz
	if lineSpacing > 0 {
		lineHz = int(lineSpacing*240 + 0.5)
	}

	var result []string
	for _, line := range markdown.ParseLines(text) {
		switch line.Kind {
		case markdown.LineBlank:
			result = append(result, paragraph(spacingXML(0, 0, lineHz), ""))
		case markdown.LineHeading:
			result = append(result, b.headingParagraph(line, spacingBefore, lineHz))
		case markdown.LineBullet:
			topLevel := line.Indent < 2
			if hideMarkers && topLevel {
				result = append(result, paragraph(
					spacingXML(120, 60, lineHz),
					b.inlineRuns(line.Text, sizeBody, true, "", false)))
				continue
			}
			level := 0
			if !topLevel {
				level = 1
			}
			result = append(result, paragraph(
				numPrXML(1, level)+spacingXML(0, 60, lineHz),
				b.inlineRuns(line.Text, sizeBody, false, "", false)))
		case markdown.LineNumbered:
			result = append(result, paragraph(
				numPrXML(2, 0)+spacingXML(0, 60, lineHz),
				b.inlineRuns(line.Text, sizeBody, false, "", false)))
		default:
			result = append(result, paragraph(
				spacingXML(0, 100, lineHz),
				b.inlineRuns(line.Text, sizeBody, false, "", false)))
		}
	}
	return result
}

func (b *builder) headingParagraph(line markdown.Line, spacingBefore, lineHz int) string {
	switch line.Level {
	case 1:
		return paragraph(
			`<w:pStyle w:val="Heading1"/>`+spacingXML(spacingBefore, 200, lineHz),
			b.inlineRuns(line.Text, sizeH1, true, b.bundle.HeadingColor, b.caps))
	case 2:
		before := spacingBefore
		if before == 0 {
			before = 300
		}
		return paragraph(
			`<w:pStyle w:val="Heading2"/>`+spacingXML(before, 150, lineHz),
			b.inlineRuns(line.Text, sizeH2, true, b.bundle.HeadingColor, b.caps))
	default:
		h3Color := ""
		if b.bundle.H3Color != "" {
			h3Color = strings.TrimPrefix(b.bundle.H3Color, "#")
		}
		return paragraph(
			`<w:pStyle w:val="Heading3"/>`+spacingXML(200, 100, lineHz),
			b.inlineRuns(line.Text, sizeH3, true, h3Color, false))
	}
}

// inlineRuns 把一行文本的行内片段转成运行序列。
func (b *builder) inlineRuns(text string, size int, bold bool, color string, caps bool) string {
	if caps {
		text = strings.ToUpper(text)
	}
	var out strings.Builder
	for _, part := range markdown.ParseInline(text) {
		switch part.Kind {
		case markdown.InlineLink:
			rid := b.addRel(relTypeHyperlink, part.Href, true)
			out.WriteString(fmt.Sprintf(`<w:hyperlink r:id="%s">%s</w:hyperlink>`,
				rid, run(part.Text, b.font, size, false, colorLink, true)))
		case markdown.InlineBold:
			out.WriteString(run(part.Text, b.font, size, true, color, false))
		default:
			out.WriteString(run(part.Text, b.font, size, bold, color, false))
		}
	}
	return out.String()
}

// contactParagraph 生成联系栏段落，条目之间以浅灰圆点分隔。
func (b *builder) contactParagraph(info resume.ContactInfo, alignment string) string {
	var runs strings.Builder
	dot := func() {
		runs.WriteString(run("  •  ", b.font, sizeContact, false, colorContactDot, false))
	}
	text := func(value string) {
		if runs.Len() > 0 {
			dot()
		}
		runs.WriteString(run(value, b.font, sizeContact, false, colorContact, false))
	}
	link := func(label, target string) {
		if runs.Len() > 0 {
			dot()
		}
		rid := b.addRel(relTypeHyperlink, target, true)
		runs.WriteString(fmt.Sprintf(`<w:hyperlink r:id="%s">%s</w:hyperlink>`,
			rid, run(label, b.font, sizeContact, false, colorLink, true)))
	}

	if info.Phone != "" {
		text(info.Phone)
	}
	if info.Location != "" {
		text(info.Location)
	}
	if info.Email != "" {
		link(info.Email, "mailto:"+info.Email)
	}
	if info.LinkedIn != "" {
		link("LinkedIn", info.LinkedIn)
	}
	if info.GitHub != "" {
		link("GitHub", info.GitHub)
	}
	if info.Portfolio != "" {
		link("Portfolio", info.Portfolio)
	}
	if info.Website != "" {
		link("Website", info.Website)
	}
	if info.LeetCode != "" {
		link("LeetCode", info.LeetCode)
	}

	jc := ""
	switch alignment {
	case "center":
		jc = `<w:jc w:val="center"/>`
	case "right":
		jc = `<w:jc w:val="right"/>`
	}
	return paragraph(jc+spacingXML(0, 200, 0), runs.String())
}

func (b *builder) centeredImageParagraph(data []byte, sizePx int) string {
	return b.imageParagraph(data, sizePx, `<w:jc w:val="center"/>`+spacingXML(0, 200, 0))
}

func (b *builder) imageParagraph(data []byte, sizePx int, pPr string) string {
	rid := b.addImage(data)
	b.imgSeq++
	emu := sizePx * emuPerPixel
	drawing := fmt.Sprintf(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Profile"/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic><pic:nvPicPr><pic:cNvPr id="%d" name="Profile"/><pic:cNvPicPr/></pic:nvPicPr><pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill><pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		emu, emu, b.imgSeq, b.imgSeq, rid, emu, emu)
	return paragraph(pPr, drawing)
}

func (b *builder) addImage(data []byte) string {
	ext := "png"
	if http.DetectContentType(data) == "image/jpeg" {
		ext = "jpeg"
	}
	name := fmt.Sprintf("image%d.%s", len(b.media)+1, ext)
	b.media[name] = data
	return b.addRel(relTypeImage, "media/"+name, false)
}

func (b *builder) addRel(relType, target string, external bool) string {
	b.relSeq++
	id := fmt.Sprintf("rId%d", b.relSeq)
	b.rels = append(b.rels, relationship{id: id, relType: relType, target: target, external: external})
	return id
}

func (b *builder) twoColumnTable(left, right []string) string {
	cells := b.tableCell(`<w:tcW w:w="2500" w:type="pct"/>`, left) +
		b.tableCell(`<w:tcW w:w="2500" w:type="pct"/>`, right)
	return borderlessTable("<w:tr>" + cells + "</w:tr>")
}

func (b *builder) tableCell(widthXML string, blocks []string) string {
	// 单元格内容为空时 Word 要求至少一个段落
	if len(blocks) == 0 {
		blocks = []string{paragraph("", "")}
	}
	return fmt.Sprintf(`<w:tc><w:tcPr>%s%s</w:tcPr>%s</w:tc>`,
		widthXML, noBordersXML("w:tcBorders"), strings.Join(blocks, ""))
}

func borderlessTable(rows string) string {
	return fmt.Sprintf(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>%s</w:tblPr>%s</w:tbl>`,
		noBordersXML("w:tblBorders"), rows)
}

func noBordersXML(tag string) string {
	none := `w:val="none" w:sz="0" w:space="0" w:color="auto"`
	return fmt.Sprintf(`<%s><w:top %s/><w:left %s/><w:bottom %s/><w:right %s/><w:insideH %s/><w:insideV %s/></%s>`,
		tag, none, none, none, none, none, none, tag)
}

func paragraph(pPr, content string) string {
	if pPr != "" {
		pPr = "<w:pPr>" + pPr + "</w:pPr>"
	}
	return "<w:p>" + pPr + content + "</w:p>"
}

func run(text, font string, size int, bold bool, color string, underline bool) string {
	var props strings.Builder
	fmt.Fprintf(&props, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, xmlEscape(font), xmlEscape(font))
	if bold {
		props.WriteString("<w:b/>")
	}
	if color != "" {
		fmt.Fprintf(&props, `<w:color w:val="%s"/>`, xmlEscape(color))
	}
	fmt.Fprintf(&props, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, size, size)
	if underline {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	return fmt.Sprintf(`<w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`,
		props.String(), xmlEscape(text))
}

func spacingXML(before, after, line int) string {
	var b strings.Builder
	b.WriteString("<w:spacing")
	if before > 0 {
		fmt.Fprintf(&b, ` w:before="%d"`, before)
	}
	if after > 0 {
		fmt.Fprintf(&b, ` w:after="%d"`, after)
	}
	if line > 0 {
		fmt.Fprintf(&b, ` w:line="%d" w:lineRule="auto"`, line)
	}
	b.WriteString("/>")
	return b.String()
}

func numPrXML(numID, level int) string {
	return fmt.Sprintf(`<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, level, numID)
}

// primaryFontName 从字体栈中取第一个字体名，去掉引号。
func primaryFontName(stack string) string {
	if strings.TrimSpace(stack) == "" {
		return "Calibri"
	}
	first := strings.SplitN(stack, ",", 2)[0]
	first = strings.TrimSpace(strings.ReplaceAll(first, `"`, ""))
	if first == "" {
		return "Calibri"
	}
	return first
}
