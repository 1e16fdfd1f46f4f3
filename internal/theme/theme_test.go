package theme

import (
	"strings"
	"testing"
)

func TestResolveBuiltins(t *testing.T) {
	for _, name := range Names {
		b := Resolve(name, nil)
		if b.Name != name {
			t.Errorf("Resolve(%q) returned bundle %q", name, b.Name)
		}
		if b.HeadingColor == "" {
			t.Errorf("theme %q has no heading color", name)
		}
		if b.CSS == "" {
			t.Errorf("theme %q has no css", name)
		}
	}
}

func TestResolveUnknownFallsBackToModern(t *testing.T) {
	b := Resolve("does-not-exist", nil)
	if b.Name != DefaultTheme {
		t.Errorf("unknown theme resolved to %q, want %q", b.Name, DefaultTheme)
	}
}

func TestResolveCustomOverrides(t *testing.T) {
	b := Resolve("tpl-abc", &CustomOverrides{
		Name:         "My Template",
		HeadingColor: "#ff0000",
		BgColor:      "#fafafa",
		TextColor:    "#222222",
		FontFamily:   `"Lora", serif`,
	})
	if b.HeadingColor != "ff0000" {
		t.Errorf("heading color = %q", b.HeadingColor)
	}
	if b.Background != "#fafafa" || b.TextColor != "#222222" {
		t.Errorf("bg=%q text=%q", b.Background, b.TextColor)
	}
	if !strings.Contains(b.CSS, "#ff0000") {
		t.Errorf("custom css missing heading color: %q", b.CSS)
	}
}

func TestResolveCustomDefaults(t *testing.T) {
	b := Resolve("tpl-empty", &CustomOverrides{Name: "Empty"})
	if b.HeadingColor != "2563eb" {
		t.Errorf("heading color default = %q", b.HeadingColor)
	}
	if b.Background != "#ffffff" {
		t.Errorf("background default = %q", b.Background)
	}
}

func TestBulletGlyphs(t *testing.T) {
	glyphs := map[string]string{
		"executive": "▸",
		"creative":  "●",
		"tech":      "→",
		"elegant":   "◆",
		"corporate": "■",
		"bold":      "▶",
	}
	for name, glyph := range glyphs {
		if b := Resolve(name, nil); b.BulletGlyph != glyph {
			t.Errorf("theme %q glyph = %q, want %q", name, b.BulletGlyph, glyph)
		}
	}
	for _, name := range []string{"modern", "classic", "minimal"} {
		if b := Resolve(name, nil); b.BulletGlyph != "" {
			t.Errorf("theme %q should use default list markers", name)
		}
	}
}

func TestDensityCSSTables(t *testing.T) {
	if PreviewDensityCSS(PageAuto) != "" {
		t.Error("auto preview density must be empty")
	}
	if PrintDensityCSS(PageAuto) != "" {
		t.Error("auto print density must be empty")
	}
	for _, target := range []PageTarget{PageSingle, PageDouble, PageTriple} {
		if PreviewDensityCSS(target) == "" {
			t.Errorf("missing preview density for %q", target)
		}
		if PrintDensityCSS(target) == "" {
			t.Errorf("missing print density for %q", target)
		}
	}
	if !strings.Contains(PrintDensityCSS(PageSingle), "9pt") {
		t.Error("single page print density should force 9pt body text")
	}
}

func TestValidPageTarget(t *testing.T) {
	for _, ok := range []PageTarget{PageAuto, PageSingle, PageDouble, PageTriple} {
		if !ValidPageTarget(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	if ValidPageTarget("4") {
		t.Error("4 pages is not a valid target")
	}
}
