package resume

import "vibrantResume/internal/markdown"

// Document 表示存储在工作文档 Content(JSONB) 中的结构化数据。
type Document struct {
	Sections         []markdown.Section `json:"sections"`
	ContactInfo      ContactInfo        `json:"contact_info"`
	ContactAlignment string             `json:"contact_alignment"` // left | center | right | justify
	Theme            string             `json:"theme"`
	PageTarget       string             `json:"page_target"` // auto | 1 | 2 | 3
	GlobalFont       string             `json:"global_font"`
}

// ContactInfo 描述页首联系栏的各字段，空字段不渲染。
type ContactInfo struct {
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Email     string `json:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Website   string `json:"website,omitempty"`
	LeetCode  string `json:"leetcode,omitempty"`
}

// Empty 判断联系栏是否没有任何内容。
func (c ContactInfo) Empty() bool {
	return c == ContactInfo{}
}

// Metrics 是最近一次优化产出的指标，随历史快照一起保存。
type Metrics struct {
	MatchScore      int      `json:"match_score"`
	OriginalScore   int      `json:"original_score"`
	MissingKeywords []string `json:"missing_keywords"`
	CommitedChanges []string `json:"commited_changes"`
}

// Markdown 把文档各区块拼回完整 Markdown。
func (d Document) Markdown() string {
	return markdown.Serialize(d.Sections)
}

// Normalize 填充缺省字段，保证老数据读出后仍可渲染。
func (d *Document) Normalize() {
	if d.ContactAlignment == "" {
		d.ContactAlignment = "left"
	}
	if d.Theme == "" {
		d.Theme = "modern"
	}
	if d.PageTarget == "" {
		d.PageTarget = "auto"
	}
	if d.GlobalFont == "" {
		d.GlobalFont = `"Inter", sans-serif`
	}
}
