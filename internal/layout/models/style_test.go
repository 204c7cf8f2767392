package models

import (
	"encoding/json"
	"testing"

	"github.com/tdewolff/test"
)

func TestParseStyle(t *testing.T) {
	var tts = []struct {
		in  string
		out string
	}{
		{"", ""},
		{"font-size: 16px; color: #333;", "font-size: 16px; color: #333;"},
		{"color:#333;font-size:16px", "font-size: 16px; color: #333;"},
		{"background-color: rgba(76, 175, 80, 0.3); border: 2px solid #4CAF50;", "background-color: rgba(76, 175, 80, 0.3); border-width: 2px; border-style: solid; border-color: #4CAF50;"},
		{"FONT-WEIGHT: bold; text-align: center;", "font-weight: bold; text-align: center;"},
		{"font-size: 1.5em; width: 100px;", "font-size: 1.5em; width: 100px;"},
		{"opacity: 0.5; border-radius: 10px;", "opacity: 0.5; border-radius: 10px;"},
		{"color: red; color: blue;", "color: blue;"},
		{"font-family: \"Open Sans\", Arial; color: red !important;", "color: red !important; font-family: \"Open Sans\", Arial;"},
		{"color: red; } font-size: 16px;", "font-size: 16px; color: red;"},
		{"color red; font-weight: bold", "font-weight: bold;"},
		{"42: x; text-align: right;", "text-align: right;"},
		{"background: url(a;b.png); opacity: 0.5", "opacity: 0.5; background: url(a;b.png);"},
		{"color: /* nota */ blue;", "color: blue;"},
		{"border-radius: 4px  /* x */  8px;", "border-radius: 4px 8px;"},
	}
	for _, tt := range tts {
		t.Run(tt.in, func(t *testing.T) {
			test.String(t, ParseStyle(tt.in).String(), tt.out)
		})
	}
}

func TestStyleFields(t *testing.T) {
	st := ParseStyle("font-size: 16px; border: 2px solid #4CAF50; opacity: 0.3;")
	test.That(t, st.FontSize != nil)
	test.Float(t, *st.FontSize, 16)
	test.That(t, st.BorderWidth != nil)
	test.Float(t, *st.BorderWidth, 2)
	test.String(t, st.BorderStyle, "solid")
	test.String(t, st.BorderColor, "#4CAF50")
	test.Float(t, *st.Opacity, 0.3)
}

func TestStyleSet(t *testing.T) {
	st := ParseStyle("font-size: 16px; color: #333;")

	st.Set("color", "#ff0000")
	test.String(t, st.String(), "font-size: 16px; color: #ff0000;")

	st.Set("font-weight", "bold")
	test.String(t, st.String(), "font-size: 16px; font-weight: bold; color: #ff0000;")

	st.Set("letter-spacing", "2px")
	v, ok := st.Get("letter-spacing")
	test.That(t, ok)
	test.String(t, v, "2px")

	st.Set("font-weight", "")
	_, ok = st.Get("font-weight")
	test.That(t, !ok)

	st.Set("letter-spacing", "")
	test.T(t, len(st.Extra), 0)
}

func TestStyleCloneIsDeep(t *testing.T) {
	st := ParseStyle("font-size: 16px; width: 10px;")
	cp := st.Clone()
	*cp.FontSize = 30
	cp.Extra[0].Value = "99px"

	test.Float(t, *st.FontSize, 16)
	test.String(t, st.Extra[0].Value, "10px")
}

func TestStyleScaled(t *testing.T) {
	st := ParseStyle("font-size: 16px; width: 200px; color: red;")
	small := st.Scaled(0.25, 8)
	test.Float(t, *small.FontSize, 8)
	v, _ := small.Get("width")
	test.String(t, v, "50px")

	big := st.Scaled(2, 8)
	test.Float(t, *big.FontSize, 32)

	test.Float(t, *st.FontSize, 16)
}

func TestStyleJSON(t *testing.T) {
	b, err := json.Marshal(ParseStyle("color: #333; font-size: 16px"))
	test.Error(t, err)
	test.String(t, string(b), `"font-size: 16px; color: #333;"`)

	var st Style
	test.Error(t, json.Unmarshal([]byte(`"text-decoration: underline;"`), &st))
	test.String(t, st.TextDecoration, "underline")

	test.That(t, json.Unmarshal([]byte(`12`), &st) != nil)
}

func TestParsePx(t *testing.T) {
	px, ok := ParsePx("16px")
	test.That(t, ok)
	test.Float(t, px, 16)

	px, ok = ParsePx("0")
	test.That(t, ok)
	test.Float(t, px, 0)

	_, ok = ParsePx("1em")
	test.That(t, !ok)
}
