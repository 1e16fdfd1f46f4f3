package theme

import "encoding/json"

// StoredTemplate 是持久层自定义模板中与样式相关的字段。
// ProfilePic 为 JSON 编码的 ProfilePic，可为空。
type StoredTemplate struct {
	Name         string
	HeadingColor string
	AccentColor  string
	BgColor      string
	TextColor    string
	FontFamily   string
	ProfilePic   []byte
}

// ResolveStored 把存储的自定义模板解析成样式包与头像描述。
func ResolveStored(name string, tpl StoredTemplate) (Bundle, *ProfilePic) {
	var pic *ProfilePic
	if len(tpl.ProfilePic) > 0 {
		var p ProfilePic
		if json.Unmarshal(tpl.ProfilePic, &p) == nil && p.URL != "" {
			pic = &p
		}
	}
	return Resolve(name, &CustomOverrides{
		Name:         tpl.Name,
		HeadingColor: tpl.HeadingColor,
		AccentColor:  tpl.AccentColor,
		BgColor:      tpl.BgColor,
		TextColor:    tpl.TextColor,
		FontFamily:   tpl.FontFamily,
		ProfilePic:   pic,
	}), pic
}
