package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Username           string `gorm:"uniqueIndex;size:64"`
	PasswordHash       string `gorm:"size:255"`
	MustChangePassword bool   `gorm:"default:false"`
}

// WorkingDocument 是用户唯一的工作文档，保存覆盖写入。
// Content 内是结构化的 resume.Document。
type WorkingDocument struct {
	gorm.Model
	UserID  uint           `gorm:"uniqueIndex"`
	Content datatypes.JSON `gorm:"type:jsonb"`
	User    User           `gorm:"constraint:OnDelete:CASCADE"`
}

// HistorySnapshot 是工作文档保存时的不可变快照。
// 每个用户最多保留 20 条，超限需要确认淘汰最旧一条。
type HistorySnapshot struct {
	gorm.Model
	UserID  uint           `gorm:"index"`
	Name    string         `gorm:"size:255"`
	Content datatypes.JSON `gorm:"type:jsonb"` // resume.Document 快照
	Metrics datatypes.JSON `gorm:"type:jsonb"` // resume.Metrics 快照
	User    User           `gorm:"constraint:OnDelete:CASCADE"`
}

// CustomTemplate 表示用户自建的简历模板。
// 主题标识不是内置主题名时按模板 ID 解析。
type CustomTemplate struct {
	gorm.Model
	UserID       uint           `gorm:"index"`
	Name         string         `gorm:"size:255"`
	HeadingColor string         `gorm:"size:16"`
	AccentColor  string         `gorm:"size:16"`
	BgColor      string         `gorm:"size:16"`
	TextColor    string         `gorm:"size:16"`
	FontFamily   string         `gorm:"size:128"`
	ProfilePic   datatypes.JSON `gorm:"type:jsonb"` // theme.ProfilePic，可为空
	User         User           `gorm:"constraint:OnDelete:CASCADE"`
}

// Asset 记录用户上传的图片（头像等）在对象存储中的位置。
type Asset struct {
	gorm.Model
	UserID    uint   `gorm:"index"`
	ObjectKey string `gorm:"size:512;uniqueIndex"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
}
