package badge_test

import (
	"strings"
	"testing"

	"github.com/strixun/modvault/pkg/internal/badge"
)

// TestRenderStatusColors 测试状态到颜色的映射.
func TestRenderStatusColors(t *testing.T) {
	cases := []struct {
		status badge.Status
		color  string
	}{
		{badge.StatusVerified, "#4c1"},
		{badge.StatusUnverified, "#9f9f9f"},
		{badge.StatusTampered, "#e05d44"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			svg, err := badge.Render("integrity", tc.status, badge.StyleFlat)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			if !strings.Contains(svg, tc.color) {
				t.Errorf("SVG for %s should contain color %s", tc.status, tc.color)
			}

			if !strings.Contains(svg, string(tc.status)) {
				t.Errorf("SVG should contain status text %q", tc.status)
			}
		})
	}
}

// TestRenderStyles 测试三种样式的差异.
func TestRenderStyles(t *testing.T) {
	flat, err := badge.Render("integrity", badge.StatusVerified, badge.StyleFlat)
	if err != nil {
		t.Fatalf("Render flat failed: %v", err)
	}

	square, err := badge.Render("integrity", badge.StatusVerified, badge.StyleFlatSquare)
	if err != nil {
		t.Fatalf("Render flat-square failed: %v", err)
	}

	plastic, err := badge.Render("integrity", badge.StatusVerified, badge.StylePlastic)
	if err != nil {
		t.Fatalf("Render plastic failed: %v", err)
	}

	// flat 有渐变与圆角，flat-square 都没有
	if !strings.Contains(flat, "linearGradient") {
		t.Error("flat style should include a gradient")
	}

	if strings.Contains(square, "linearGradient") {
		t.Error("flat-square style should not include a gradient")
	}

	if !strings.Contains(square, `rx="0"`) {
		t.Error("flat-square style should have no corner radius")
	}

	// plastic 更矮
	if !strings.Contains(plastic, `height="18"`) {
		t.Error("plastic style should be 18px tall")
	}
}

// TestRenderWidthScalesWithText 测试宽度随文本长度增长.
func TestRenderWidthScalesWithText(t *testing.T) {
	short, err := badge.Render("i", badge.StatusVerified, badge.StyleFlat)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	long, err := badge.Render("integrity-check-badge", badge.StatusVerified, badge.StyleFlat)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(long) <= len(short) {
		t.Error("Longer label should produce a wider (longer) SVG document")
	}
}

// TestRenderUnknownStatus 测试未知状态报错.
func TestRenderUnknownStatus(t *testing.T) {
	if _, err := badge.Render("integrity", badge.Status("bogus"), badge.StyleFlat); err == nil {
		t.Error("Expected error for unknown status")
	}
}

// TestParseStyle 测试样式参数解析与回落.
func TestParseStyle(t *testing.T) {
	cases := []struct {
		in   string
		want badge.Style
	}{
		{"flat", badge.StyleFlat},
		{"flat-square", badge.StyleFlatSquare},
		{"plastic", badge.StylePlastic},
		{"", badge.StyleFlat},
		{"neon", badge.StyleFlat},
	}

	for _, tc := range cases {
		if got := badge.ParseStyle(tc.in); got != tc.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
