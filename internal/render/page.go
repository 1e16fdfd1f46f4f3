package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"vibrantResume/internal/resume"
	"vibrantResume/internal/theme"
)

// Input 汇集渲染一页简历所需的全部数据。
type Input struct {
	Doc    resume.Document
	Bundle theme.Bundle
	Pic    *theme.ProfilePic
}

// 页面骨架模板。正文片段在 Go 侧组装完成后整体注入。
const pageTemplateString = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Resume</title>
    <style>
{{.BaseCSS | safeCSS}}
{{.ThemeCSS | safeCSS}}
{{.DensityCSS | safeCSS}}
{{.PrintCSS | safeCSS}}
    </style>
</head>
<body>
    <div id="resume-preview" style="{{.WrapperStyle | safeCSS}}">
{{.Body | safeHTML}}
    </div>
{{if .Script}}    <script>{{.Script | safeJS}}</script>
{{end}}</body>
</html>
`

var pageTemplate = template.Must(template.New("resume-page").Funcs(template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"safeCSS":  func(s string) template.CSS { return template.CSS(s) },
	"safeJS":   func(s string) template.JS { return template.JS(s) },
}).Parse(pageTemplateString))

type pageData struct {
	BaseCSS      string
	ThemeCSS     string
	DensityCSS   string
	PrintCSS     string
	WrapperStyle string
	Body         string
	Script       string
}

const baseCSS = `* { box-sizing: border-box; }
body { margin: 0; padding: 0; font-family: system-ui, sans-serif; }
#resume-preview { width: 100%; max-width: 850px; margin: 0 auto; padding: 40px 60px; position: relative; }
.text-left { text-align: left; }
.text-center { text-align: center; }
.text-right { text-align: right; }
.text-justify { text-align: justify; }
.two-col { display: grid; grid-template-columns: 1fr 1fr; gap: 1.5rem; }
.contact-bar { display: flex; flex-wrap: nowrap; align-items: center; column-gap: 0.5rem; font-size: 11px; margin: 2px 0 8px; overflow: hidden; }
.contact-bar a { text-decoration: none; }
.contact-dot { color: #d1d5db; opacity: 0.5; }
.separator { border-bottom: 2px solid; margin: 4px 0; }
.pic-row { display: flex; align-items: center; gap: 1rem; margin-bottom: 1rem; }
.pic-row.reverse { flex-direction: row-reverse; }
.pic-row img { object-fit: cover; flex-shrink: 0; border: 2px solid #ffffff; }
.pic-main { flex: 1; min-width: 0; }
.pic-top { display: flex; width: 100%; justify-content: center; margin-bottom: 1.5rem; }
.pic-top img { object-fit: cover; border: 4px solid #ffffff; }`

const printCSS = `@page { size: A4; margin: 0; }
@media print {
    body { margin: 0; padding: 0; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
    #resume-preview { width: 210mm !important; min-height: unset !important; box-shadow: none !important; margin: 0 !important; }
}`

// 打印脚本。auto 模式下量出内容高度，超出一页时整体缩放到恰好一页，
// 最后插入 #pdf-render-ready 供抓取端等待。
const autoFitScript = `(function () {
    var el = document.getElementById('resume-preview');
    if (el) {
        var a4HeightPx = 297 * (96 / 25.4);
        el.style.zoom = '1';
        var contentHeight = el.scrollHeight;
        if (contentHeight > a4HeightPx) {
            var zoom = a4HeightPx / contentHeight;
            var st = document.createElement('style');
            st.textContent = '#resume-preview { zoom: ' + zoom + ' !important; width: ' + Math.round(210 / zoom) + 'mm !important; }';
            document.head.appendChild(st);
        }
    }
    var ready = document.createElement('div');
    ready.id = 'pdf-render-ready';
    ready.style.display = 'none';
    document.body.appendChild(ready);
})();`

const readyScript = `(function () {
    var ready = document.createElement('div');
    ready.id = 'pdf-render-ready';
    ready.style.display = 'none';
    document.body.appendChild(ready);
})();`

// Preview 生成屏幕预览文档。
func Preview(in Input) (string, error) {
	return build(in, false)
}

// Print 生成打印管线使用的文档：A4 页面设置、打印密度覆盖，
// auto 页数目标时附带自适应缩放脚本。
func Print(in Input) (string, error) {
	return build(in, true)
}

func build(in Input, print bool) (string, error) {
	doc := in.Doc
	doc.Normalize()

	var body strings.Builder
	body.WriteString(renderTopCenterPic(in.Pic))
	for i, sec := range doc.Sections {
		body.WriteString(renderSectionBlock(sec, i == 0, doc, in.Bundle, in.Pic))
	}

	target := theme.PageTarget(doc.PageTarget)
	data := pageData{
		BaseCSS:      baseCSS,
		ThemeCSS:     scopeThemeCSS(in.Bundle.CSS),
		WrapperStyle: wrapperStyle(doc, in.Bundle),
		Body:         body.String(),
	}
	if print {
		data.DensityCSS = theme.PrintDensityCSS(target)
		data.PrintCSS = printCSS
		if target == theme.PageAuto {
			data.Script = autoFitScript
		} else {
			data.Script = readyScript
		}
	} else {
		data.DensityCSS = theme.PreviewDensityCSS(target)
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render resume page: %w", err)
	}
	return out.String(), nil
}

func wrapperStyle(doc resume.Document, bundle theme.Bundle) string {
	font := doc.GlobalFont
	if font == "" {
		font = bundle.FontFamily
	}
	return fmt.Sprintf("background-color: %s; color: %s; font-family: %s",
		bundle.Background, bundle.TextColor, font)
}

// scopeThemeCSS 把主题的元素级规则限定到预览容器内，
// 避免污染承载页面的其它元素。
func scopeThemeCSS(css string) string {
	var b strings.Builder
	for _, rule := range strings.Split(css, "\n") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		b.WriteString("#resume-preview ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	return b.String()
}
