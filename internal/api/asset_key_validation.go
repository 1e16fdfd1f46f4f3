package api

import (
	"strings"
	"unicode/utf8"

	"vibrantResume/internal/storage"
)

const maxAssetObjectKeyLen = 200

// allowedAssetExtension 限定上传与签名访问的图片类型。
func allowedAssetExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

// isValidUserAssetObjectKey 校验对象 key 归属当前用户且无路径穿越。
func isValidUserAssetObjectKey(userID uint, key string) bool {
	if key == "" || len(key) > maxAssetObjectKeyLen || !utf8.ValidString(key) {
		return false
	}
	if !strings.HasPrefix(key, storage.UserPrefix(storage.AssetPrefix, userID)) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	dot := strings.LastIndex(key, ".")
	if dot < 0 {
		return false
	}
	return allowedAssetExtension(strings.TrimSpace(key[dot:]))
}
