package parser

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// 部分站点会拒绝无 UA 的请求，带上常见浏览器标识。
const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxFetchBytes = 4 << 20

var (
	chromeClient = &http.Client{Timeout: 30 * time.Second}

	// 导航、页眉与页脚对职位描述没有价值，整块剔除
	dropBlocksRe = regexp.MustCompile(`(?is)<(script|style|nav|footer|header)\b[^>]*>.*?</\s*(?:script|style|nav|footer|header)\s*>`)
	stripPolicy  = bluemonday.StrictPolicy()
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// FetchURL 抓取网页并提取正文纯文本，用于把职位链接转成职位描述。
func FetchURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := chromeClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch url: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch url: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	return StripHTML(string(body)), nil
}

// StripHTML 去掉页面骨架与全部标签，折叠空白。
func StripHTML(page string) string {
	cleaned := dropBlocksRe.ReplaceAllString(page, " ")
	text := stripPolicy.Sanitize(cleaned)
	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
