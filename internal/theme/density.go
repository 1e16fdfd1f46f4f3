package theme

// PageTarget 表示用户希望简历压缩到的页数。
type PageTarget string

const (
	PageAuto   PageTarget = "auto"
	PageSingle PageTarget = "1"
	PageDouble PageTarget = "2"
	PageTriple PageTarget = "3"
)

// ValidPageTarget 检查页数目标是否合法。
func ValidPageTarget(t PageTarget) bool {
	switch t {
	case PageAuto, PageSingle, PageDouble, PageTriple:
		return true
	}
	return false
}

// 屏幕预览用的密度覆盖（rem 单位）。auto 不产生覆盖。
var previewDensityCSS = map[PageTarget]string{
	PageSingle: `#resume-preview { padding: 20px 32px !important; }
#resume-preview h1 { font-size: 1.5rem !important; margin-top: 0 !important; margin-bottom: 0.1em !important; padding-bottom: 0.15em !important; }
#resume-preview h2 { font-size: 0.85rem !important; margin-top: 0.35em !important; margin-bottom: 0.2em !important; padding-top: 0.1em !important; padding-bottom: 0.1em !important; }
#resume-preview h3 { font-size: 0.8rem !important; margin-top: 0.3em !important; margin-bottom: 0.15em !important; }
#resume-preview p  { margin-top: 0 !important; margin-bottom: 0.1em !important; line-height: 1.2 !important; font-size: 0.78rem !important; }
#resume-preview ul { margin-top: 0.1em !important; margin-bottom: 0.1em !important; padding-left: 1rem !important; }
#resume-preview li { line-height: 1.2 !important; margin-bottom: 0.05em !important; font-size: 0.78rem !important; }
#resume-preview strong { font-size: inherit !important; }`,
	PageDouble: `#resume-preview { padding: 24px 32px !important; }
#resume-preview h1 { font-size: 1.7rem !important; margin-top: 0 !important; margin-bottom: 0.15em !important; }
#resume-preview h2 { font-size: 0.9rem !important; margin-top: 0.5em !important; margin-bottom: 0.25em !important; }
#resume-preview h3 { font-size: 0.85rem !important; margin-top: 0.4em !important; margin-bottom: 0.2em !important; }
#resume-preview p  { margin-bottom: 0.2em !important; line-height: 1.35 !important; font-size: 0.82rem !important; }
#resume-preview ul { margin-top: 0.15em !important; margin-bottom: 0.15em !important; }
#resume-preview li { line-height: 1.35 !important; margin-bottom: 0.1em !important; font-size: 0.82rem !important; }`,
	PageTriple: `#resume-preview h1 { margin-bottom: 0.2em !important; }
#resume-preview h2 { margin-top: 0.7em !important; margin-bottom: 0.3em !important; }
#resume-preview p  { margin-bottom: 0.35em !important; line-height: 1.5 !important; }
#resume-preview li { line-height: 1.5 !important; }`,
}

// 打印用的密度覆盖（mm/pt 单位），与打印盒模型匹配。
var printDensityCSS = map[PageTarget]string{
	PageSingle: `#resume-preview { padding: 5mm 10mm !important; }
#resume-preview h1 { font-size: 24pt !important; margin-bottom: 0px !important; line-height: 1.1 !important; }
#resume-preview h2 { font-size: 11pt !important; margin-top: 3mm !important; margin-bottom: 1.5mm !important; line-height: 1.1 !important; }
#resume-preview h3 { font-size: 10pt !important; margin-top: 2mm !important; margin-bottom: 1mm !important; }
#resume-preview p, #resume-preview li { font-size: 9pt !important; line-height: 1.12 !important; margin-bottom: 0.8mm !important; }
#resume-preview ul { margin-top: 0.8mm !important; margin-bottom: 0.8mm !important; padding-left: 4mm !important; }`,
	PageDouble: `#resume-preview { padding: 8mm 12mm !important; }
#resume-preview h1 { font-size: 26pt !important; }
#resume-preview h2 { font-size: 12pt !important; margin-top: 5mm !important; margin-bottom: 2mm !important; }
#resume-preview p, #resume-preview li { font-size: 9.5pt !important; line-height: 1.25 !important; }`,
	PageTriple: `#resume-preview { padding: 12mm 15mm !important; }
#resume-preview h1 { margin-bottom: 0.2em !important; }
#resume-preview h2 { margin-top: 0.7em !important; margin-bottom: 0.3em !important; }
#resume-preview p, #resume-preview li { line-height: 1.45 !important; }`,
}

// PreviewDensityCSS 返回屏幕预览的密度覆盖。auto 返回空串。
func PreviewDensityCSS(t PageTarget) string {
	return previewDensityCSS[t]
}

// PrintDensityCSS 返回打印管线的密度覆盖。auto 返回空串，
// 由打印侧用整体缩放把内容压进一页。
func PrintDensityCSS(t PageTarget) string {
	return printDensityCSS[t]
}
