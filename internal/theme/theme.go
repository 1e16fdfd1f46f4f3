package theme

// Bundle 描述一套主题的完整样式：页面、标题、正文、列表与链接。
// 渲染器用它生成 CSS，DOCX 导出用其中的颜色与大小写规则。
type Bundle struct {
	Name              string
	FontFamily        string
	Background        string
	TextColor         string
	HeadingColor      string // h1/h2 主色（十六进制，不含 #）
	H3Color           string // 为空则跟随正文
	LinkColor         string
	BulletGlyph       string // 为空表示使用默认圆点列表
	UppercaseHeadings bool
	SeparatorColor    string // 联系栏下方分隔线颜色
	CSS               string // 主题私有的元素样式
}

// CustomOverrides 携带自定义模板的颜色与头像配置。
// 由持久层读取后传入 Resolve。
type CustomOverrides struct {
	Name         string
	HeadingColor string
	AccentColor  string
	BgColor      string
	TextColor    string
	FontFamily   string
	ProfilePic   *ProfilePic
}

// ProfilePic 描述自定义模板中的头像。
type ProfilePic struct {
	URL      string `json:"url"`
	Shape    string `json:"shape"`    // circle | rectangle
	Position string `json:"position"` // top-center | top-left | top-right | inline-left | inline-right
	Size     int    `json:"size"`     // 像素宽高
	OffsetY  int    `json:"offset_y"`
}

// DefaultTheme 是未知主题标识的回退目标。
const DefaultTheme = "modern"

// Names 按展示顺序列出全部内置主题。
var Names = []string{
	"modern", "classic", "minimal", "executive", "creative",
	"tech", "elegant", "corporate", "bold",
}

const (
	sansStack  = `"Inter", "Helvetica Neue", Arial, sans-serif`
	serifStack = `Georgia, "Times New Roman", serif`
	monoStack  = `"JetBrains Mono", "Courier New", monospace`
)

var builtins = map[string]Bundle{
	"modern": {
		Name:           "modern",
		FontFamily:     sansStack,
		Background:     "#ffffff",
		TextColor:      "#0f172a",
		HeadingColor:   "2563EB",
		LinkColor:      "#2563eb",
		SeparatorColor: "#dbeafe",
		CSS: `h1 { font-size: 1.875rem; font-weight: 700; text-transform: uppercase; color: #2563eb; border-bottom: 2px solid #dbeafe; padding-bottom: 0.5rem; margin-bottom: 1rem; }
h2 { font-size: 1.25rem; font-weight: 700; color: #334155; margin: 1rem 0 0.75rem; }
h3 { font-size: 1.125rem; font-weight: 700; color: #1e293b; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #475569; }
ul { padding-left: 1.25rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; margin-bottom: 0.25rem; }
li::marker { color: #94a3b8; }
strong { font-weight: 600; color: #0f172a; }
a { color: #2563eb; text-decoration: underline; }`,
	},
	"classic": {
		Name:              "classic",
		FontFamily:        serifStack,
		Background:        "#ffffff",
		TextColor:         "#0f172a",
		HeadingColor:      "1E293B",
		LinkColor:         "#1d4ed8",
		UppercaseHeadings: true,
		SeparatorColor:    "#0f172a",
		CSS: `h1 { font-size: 1.875rem; font-weight: 700; text-transform: uppercase; letter-spacing: 0.1em; border-bottom: 2px solid #0f172a; padding-bottom: 0.5rem; margin-bottom: 1rem; }
h2 { font-size: 1.125rem; font-weight: 700; text-transform: uppercase; border-bottom: 1px solid #cbd5e1; padding-bottom: 0.25rem; margin: 1rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 700; color: #1e293b; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; }
ul { padding-left: 1.25rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; margin-bottom: 0.25rem; }
li::marker { color: #94a3b8; }
strong { font-weight: 600; color: #0f172a; }
a { color: #1d4ed8; text-decoration: underline; }`,
	},
	"minimal": {
		Name:              "minimal",
		FontFamily:        sansStack,
		Background:        "#ffffff",
		TextColor:         "#1e293b",
		HeadingColor:      "94A3B8",
		LinkColor:         "#475569",
		UppercaseHeadings: true,
		SeparatorColor:    "#e2e8f0",
		CSS: `h1 { font-size: 2.25rem; font-weight: 300; letter-spacing: -0.025em; margin-bottom: 1.5rem; }
h2 { font-size: 0.75rem; font-weight: 700; text-transform: uppercase; letter-spacing: 0.2em; color: #94a3b8; margin: 1.5rem 0 1rem; }
h3 { font-size: 0.875rem; font-weight: 600; color: #475569; margin: 1rem 0 0.5rem; }
p { margin-bottom: 1rem; line-height: 1.75; font-size: 0.875rem; }
ul { padding-left: 1.25rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; margin-bottom: 0.25rem; }
li::marker { color: #cbd5e1; }
strong { font-weight: 500; color: #1e293b; }
a { color: #475569; text-decoration: underline; }`,
	},
	"executive": {
		Name:              "executive",
		FontFamily:        sansStack,
		Background:        "#ffffff",
		TextColor:         "#111827",
		HeadingColor:      "1E3A8A",
		BulletGlyph:       "▸",
		UppercaseHeadings: true,
		LinkColor:         "#1e40af",
		SeparatorColor:    "#1e3a8a",
		CSS: `h1 { font-size: 1.875rem; font-weight: 800; text-transform: uppercase; letter-spacing: 0.05em; border-bottom: 4px solid #1e3a8a; padding-bottom: 0.75rem; margin-bottom: 0.5rem; }
h2 { font-size: 1rem; font-weight: 700; text-transform: uppercase; letter-spacing: 0.1em; color: #1e40af; background: #eff6ff; padding: 0.375rem 0.75rem; border-radius: 0.25rem; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 700; color: #1f2937; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #374151; font-size: 0.875rem; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; position: relative; padding-left: 1rem; margin-bottom: 0.375rem; }
li::before { content: '▸'; position: absolute; left: 0; color: #1e3a8a; font-weight: 700; }
strong { font-weight: 700; color: #111827; }
a { color: #1e40af; text-decoration: underline; }`,
	},
	"creative": {
		Name:           "creative",
		FontFamily:     sansStack,
		Background:     "#ffffff",
		TextColor:      "#1f2937",
		HeadingColor:   "7C3AED",
		H3Color:        "#db2777",
		BulletGlyph:    "●",
		LinkColor:      "#7c3aed",
		SeparatorColor: "#ddd6fe",
		CSS: `h1 { font-size: 2.25rem; font-weight: 900; color: #7c3aed; margin-bottom: 1rem; }
h2 { font-size: 1.125rem; font-weight: 700; color: #6d28d9; border-left: 4px solid #a78bfa; padding-left: 0.75rem; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 700; color: #db2777; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #4b5563; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; position: relative; padding-left: 1rem; margin-bottom: 0.375rem; }
li::before { content: '●'; position: absolute; left: 0; color: #a78bfa; }
strong { font-weight: 700; color: #5b21b6; }
a { color: #7c3aed; text-decoration: underline; }`,
	},
	"tech": {
		Name:           "tech",
		FontFamily:     monoStack,
		Background:     "#020617",
		TextColor:      "#dcfce7",
		HeadingColor:   "22C55E",
		H3Color:        "#facc15",
		BulletGlyph:    "→",
		LinkColor:      "#22d3ee",
		SeparatorColor: "#166534",
		CSS: `h1 { font-size: 1.5rem; font-weight: 700; color: #4ade80; border-bottom: 1px solid #166534; padding-bottom: 0.5rem; margin-bottom: 1rem; }
h2 { font-size: 1rem; font-weight: 700; color: #22d3ee; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 0.875rem; font-weight: 700; color: #facc15; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #cbd5e1; font-size: 0.875rem; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; position: relative; padding-left: 1.25rem; margin-bottom: 0.25rem; }
li::before { content: '→'; position: absolute; left: 0; color: #22c55e; }
strong { font-weight: 700; color: #86efac; }
a { color: #22d3ee; text-decoration: underline; }`,
	},
	"elegant": {
		Name:              "elegant",
		FontFamily:        serifStack,
		Background:        "#fafaf9",
		TextColor:         "#1c1917",
		HeadingColor:      "B45309",
		BulletGlyph:       "◆",
		UppercaseHeadings: true,
		LinkColor:         "#b45309",
		SeparatorColor:    "#e7e5e4",
		CSS: `h1 { font-size: 1.875rem; font-weight: 300; letter-spacing: 0.15em; text-transform: uppercase; color: #292524; margin-bottom: 0.5rem; }
h2 { font-size: 0.875rem; font-weight: 600; text-transform: uppercase; letter-spacing: 0.2em; color: #b45309; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 600; font-style: italic; color: #44403c; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.75; color: #57534e; font-size: 0.875rem; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; position: relative; padding-left: 1rem; margin-bottom: 0.375rem; }
li::before { content: '◆'; position: absolute; left: 0; color: #d97706; font-size: 0.75rem; }
strong { font-weight: 700; color: #292524; }
a { color: #b45309; text-decoration: underline; }`,
	},
	"corporate": {
		Name:              "corporate",
		FontFamily:        sansStack,
		Background:        "#ffffff",
		TextColor:         "#111827",
		HeadingColor:      "3730A3",
		BulletGlyph:       "■",
		UppercaseHeadings: true,
		LinkColor:         "#4338ca",
		SeparatorColor:    "#e0e7ff",
		CSS: `h1 { font-size: 1.875rem; font-weight: 700; color: #ffffff; background: #3730a3; padding: 0.75rem 1rem; border-radius: 0.5rem; margin: 0 -1rem 0.5rem; }
h2 { font-size: 1rem; font-weight: 700; text-transform: uppercase; letter-spacing: 0.05em; color: #3730a3; border-bottom: 2px solid #e0e7ff; padding-bottom: 0.25rem; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 600; color: #1f2937; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #374151; font-size: 0.875rem; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; position: relative; padding-left: 1rem; margin-bottom: 0.375rem; }
li::before { content: '■'; position: absolute; left: 0; color: #4f46e5; font-size: 0.75rem; }
strong { font-weight: 700; color: #111827; }
a { color: #4338ca; text-decoration: underline; }`,
	},
	"bold": {
		Name:              "bold",
		FontFamily:        sansStack,
		Background:        "#f9fafb",
		TextColor:         "#111827",
		HeadingColor:      "EA580C",
		BulletGlyph:       "▶",
		UppercaseHeadings: true,
		LinkColor:         "#ea580c",
		SeparatorColor:    "#fed7aa",
		CSS: `h1 { font-size: 2.25rem; font-weight: 900; text-transform: uppercase; color: #ffffff; background: linear-gradient(to right, #111827, #374151); padding: 1rem 1.25rem; border-radius: 0.5rem; margin: 0 -1rem 0.75rem; }
h2 { font-size: 1.125rem; font-weight: 800; text-transform: uppercase; letter-spacing: 0.025em; color: #ea580c; border-left: 4px solid #f97316; padding-left: 0.75rem; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1rem; font-weight: 700; color: #1f2937; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; color: #4b5563; font-size: 0.875rem; }
ul { list-style: none; padding-left: 1rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; position: relative; padding-left: 1rem; margin-bottom: 0.375rem; }
li::before { content: '▶'; position: absolute; left: 0; color: #f97316; font-size: 0.75rem; }
strong { font-weight: 900; color: #111827; }
a { color: #ea580c; text-decoration: underline; }`,
	},
}

// Resolve 根据主题标识返回样式包。
// custom 不为 nil 时返回通用版式并套用自定义颜色与字体；
// 未知标识回退到 modern。纯查表，永不失败。
func Resolve(name string, custom *CustomOverrides) Bundle {
	if custom != nil {
		return customBundle(custom)
	}
	if b, ok := builtins[name]; ok {
		return b
	}
	return builtins[DefaultTheme]
}

// IsBuiltin 判断主题名是否为内置主题。
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func customBundle(c *CustomOverrides) Bundle {
	heading := c.HeadingColor
	if heading == "" {
		heading = "#2563eb"
	}
	bg := c.BgColor
	if bg == "" {
		bg = "#ffffff"
	}
	text := c.TextColor
	if text == "" {
		text = "#1a1a1a"
	}
	font := c.FontFamily
	if font == "" {
		font = sansStack
	}
	return Bundle{
		Name:           c.Name,
		FontFamily:     font,
		Background:     bg,
		TextColor:      text,
		HeadingColor:   stripHash(heading),
		LinkColor:      heading,
		SeparatorColor: "#000000",
		CSS: `h1 { font-size: 1.875rem; font-weight: 700; color: ` + heading + `; border-bottom: 2px solid ` + heading + `; padding-bottom: 0.5rem; margin-bottom: 1rem; }
h2 { font-size: 1.25rem; font-weight: 700; color: ` + heading + `; margin: 1.5rem 0 0.75rem; }
h3 { font-size: 1.125rem; font-weight: 700; margin: 1rem 0 0.5rem; }
p { margin-bottom: 0.75rem; line-height: 1.625; font-size: 0.875rem; }
ul { padding-left: 1.25rem; margin-bottom: 1rem; }
li { font-size: 0.875rem; line-height: 1.625; margin-bottom: 0.25rem; }
strong { font-weight: 600; }
a { color: ` + heading + `; text-decoration: underline; }`,
	}
}

func stripHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
