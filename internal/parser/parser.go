package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedType 表示上传的文件类型不受支持。
var ErrUnsupportedType = errors.New("unsupported file type")

// ExtractText 根据 MIME 类型或文件名后缀提取纯文本。
// 支持 PDF、DOCX/DOC 与纯文本。
func ExtractText(filename, mimeType string, data []byte) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case mimeType == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return extractPDFText(data)
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		mimeType == "application/msword" ||
		strings.HasSuffix(name, ".docx") ||
		strings.HasSuffix(name, ".doc"):
		return extractDocxText(data)
	case mimeType == "text/plain" || strings.HasSuffix(name, ".txt"):
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer func() {
		_ = doc.Close()
	}()

	// GetContent 返回 document.xml 原文，段落结束转为换行后去掉标签
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(content), nil
}
