// Package badge 渲染完整性状态的 SVG 徽标，供 README 等外部页面内嵌.
//
// 视觉风格参照 shields.io 的 flat / flat-square / plastic 三种样式，
// 宽度按文本长度估算（等宽近似，无需字体度量）.
package badge

import (
	"bytes"
	"fmt"
	"text/template"
)

// Status 徽标展示状态，由策略层从校验结果映射而来.
type Status string

const (
	StatusVerified   Status = "verified"
	StatusUnverified Status = "unverified"
	StatusTampered   Status = "tampered"
)

// Color 返回状态对应的徽标右侧底色.
func (s Status) Color() string {
	switch s {
	case StatusVerified:
		return "#4c1"
	case StatusTampered:
		return "#e05d44"
	default:
		return "#9f9f9f"
	}
}

// Valid 报告状态是否为已知取值.
func (s Status) Valid() bool {
	switch s {
	case StatusVerified, StatusUnverified, StatusTampered:
		return true
	}

	return false
}

// Style 徽标样式.
type Style string

const (
	StyleFlat       Style = "flat"
	StyleFlatSquare Style = "flat-square"
	StylePlastic    Style = "plastic"
)

// ParseStyle 解析样式参数，未知或空值回落到 flat.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleFlatSquare:
		return StyleFlatSquare
	case StylePlastic:
		return StylePlastic
	default:
		return StyleFlat
	}
}

// 文本宽度估算: Verdana 11px 下每字符约 6.5px，左右各留 5px 内边距.
const (
	charWidth = 6.5
	padding   = 10
	height    = 20
)

func textWidth(s string) int {
	w := int(charWidth*float64(len(s))) + padding
	if w < padding {
		w = padding
	}

	return w
}

type badgeData struct {
	Label      string
	Message    string
	Color      string
	LabelWidth int
	MsgWidth   int
	Width      int
	Height     int
	Radius     int
	Gradient   bool
	LabelX     int
	MsgX       int
	TextY      int
}

var badgeTmpl = template.Must(template.New("badge").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" role="img" aria-label="{{.Label}}: {{.Message}}">
  <title>{{.Label}}: {{.Message}}</title>
  {{- if .Gradient}}
  <linearGradient id="s" x2="0" y2="100%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  {{- end}}
  <clipPath id="r"><rect width="{{.Width}}" height="{{.Height}}" rx="{{.Radius}}" fill="#fff"/></clipPath>
  <g clip-path="url(#r)">
    <rect width="{{.LabelWidth}}" height="{{.Height}}" fill="#555"/>
    <rect x="{{.LabelWidth}}" width="{{.MsgWidth}}" height="{{.Height}}" fill="{{.Color}}"/>
    {{- if .Gradient}}
    <rect width="{{.Width}}" height="{{.Height}}" fill="url(#s)"/>
    {{- end}}
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">
    <text x="{{.LabelX}}" y="{{.TextY}}" fill="#010101" fill-opacity=".3">{{.Label}}</text>
    <text x="{{.LabelX}}" y="{{.TextY}}" fill="#fff" dy="-1">{{.Label}}</text>
    <text x="{{.MsgX}}" y="{{.TextY}}" fill="#010101" fill-opacity=".3">{{.Message}}</text>
    <text x="{{.MsgX}}" y="{{.TextY}}" fill="#fff" dy="-1">{{.Message}}</text>
  </g>
</svg>`))

// Render 渲染徽标 SVG. label 为左侧文本（如 "integrity"），状态决定右侧
// 文本与颜色.
func Render(label string, status Status, style Style) (string, error) {
	if !status.Valid() {
		return "", fmt.Errorf("unknown badge status %q", status)
	}

	lw := textWidth(label)
	mw := textWidth(string(status))

	data := badgeData{
		Label:      label,
		Message:    string(status),
		Color:      status.Color(),
		LabelWidth: lw,
		MsgWidth:   mw,
		Width:      lw + mw,
		Height:     height,
		Radius:     3,
		Gradient:   true,
		LabelX:     lw / 2,
		MsgX:       lw + mw/2,
		TextY:      15,
	}

	switch style {
	case StyleFlatSquare:
		data.Radius = 0
		data.Gradient = false
	case StylePlastic:
		data.Height = 18
		data.Radius = 4
		data.TextY = 14
	}

	var buf bytes.Buffer
	if err := badgeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
