package render

import (
	"strings"
	"testing"

	"vibrantResume/internal/markdown"
	"vibrantResume/internal/resume"
	"vibrantResume/internal/theme"
)

func sampleDoc() resume.Document {
	return resume.Document{
		Sections: markdown.Split("# Jane Doe\n\n## Experience\n\n- Built **things**\n- Shipped [site](https://example.com)"),
		ContactInfo: resume.ContactInfo{
			Email:  "jane@example.com",
			GitHub: "https://github.com/jane",
		},
		Theme: "modern",
	}
}

func TestPreviewContainsSectionsAndContact(t *testing.T) {
	doc := sampleDoc()
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve(doc.Theme, nil)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	for _, want := range []string{
		`id="resume-preview"`,
		"<h1", "Jane Doe",
		"<h2", "Experience",
		"<strong>things</strong>",
		`href="https://example.com"`,
		"mailto:jane@example.com",
		`href="https://github.com/jane"`,
		`class="separator"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestPreviewEscapesContent(t *testing.T) {
	doc := resume.Document{
		Sections: []markdown.Section{{ID: "section-0", Content: "# <script>alert(1)</script>"}},
	}
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("raw script tag leaked into output")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("content not escaped")
	}
}

func TestPrintAutoFitScript(t *testing.T) {
	doc := sampleDoc()
	doc.PageTarget = "auto"
	out, err := Print(Input{Doc: doc, Bundle: theme.Resolve(doc.Theme, nil)})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "297 * (96 / 25.4)") {
		t.Error("auto page target should carry the fit-to-page script")
	}
	if !strings.Contains(out, "pdf-render-ready") {
		t.Error("print document missing render-ready marker")
	}
	if !strings.Contains(out, "size: A4") {
		t.Error("print document missing A4 page rule")
	}
}

func TestPrintFixedTargetUsesDensity(t *testing.T) {
	doc := sampleDoc()
	doc.PageTarget = "1"
	out, err := Print(Input{Doc: doc, Bundle: theme.Resolve(doc.Theme, nil)})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.Contains(out, "297 * (96 / 25.4)") {
		t.Error("fixed page target should not auto-fit")
	}
	if !strings.Contains(out, "font-size: 9pt !important") {
		t.Error("single-page density overrides missing")
	}
	if !strings.Contains(out, "pdf-render-ready") {
		t.Error("print document missing render-ready marker")
	}
}

func TestTwoColumnSection(t *testing.T) {
	doc := resume.Document{
		Sections: []markdown.Section{{
			ID:        "section-0",
			Content:   "## Skills\n- Go\n- SQL\n- Docker\n- Redis",
			TwoColumn: true,
		}},
	}
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, `class="two-col"`) {
		t.Fatal("two-column grid missing")
	}
}

func TestHideMarkersScopedStyle(t *testing.T) {
	doc := resume.Document{
		Sections: []markdown.Section{{
			ID:          "section-1",
			Content:     "## Tools\n- hammer",
			HideMarkers: true,
		}},
	}
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, ".nm-section1 ul { list-style: none !important;") {
		t.Fatal("hide-markers scoped rules missing")
	}
	if !strings.Contains(out, `class="section nm-section1"`) {
		t.Fatal("section wrapper missing nm class")
	}
}

func TestLineSpacingScopedStyle(t *testing.T) {
	doc := resume.Document{
		Sections: []markdown.Section{{
			ID:          "section-2",
			Content:     "## About\nHello",
			LineSpacing: 1.45,
		}},
	}
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "line-height: 1.45 !important") {
		t.Fatal("line-spacing scoped rule missing")
	}
}

func TestProfilePicPlacements(t *testing.T) {
	doc := sampleDoc()
	top := &theme.ProfilePic{URL: "https://img.test/a.png", Shape: "circle", Position: "top-center", Size: 120}
	out, err := Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil), Pic: top})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, `class="pic-top"`) {
		t.Fatal("top-center pic block missing")
	}
	if !strings.Contains(out, "width: 120px") {
		t.Fatal("pic size not applied")
	}

	inline := &theme.ProfilePic{URL: "https://img.test/a.png", Position: "inline-right"}
	out, err = Preview(Input{Doc: doc, Bundle: theme.Resolve("modern", nil), Pic: inline})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, `class="pic-row reverse"`) {
		t.Fatal("inline-right pic should render side-by-side reversed")
	}
}
