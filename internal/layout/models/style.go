package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ============================================================
// Style
// ============================================================

// Declaration - CSS-декларация, для которой нет отдельного поля в Style.
type Declaration struct {
	Property string
	Value    string
}

// Style - структурированное представление строки estilo.
// Пустая строка или nil означают, что свойство не задано.
// Длины в пикселях.
type Style struct {
	FontSize        *float64
	FontWeight      string
	FontStyle       string
	TextDecoration  string
	TextAlign       string
	Color           string
	BackgroundColor string
	Opacity         *float64
	BorderWidth     *float64
	BorderStyle     string
	BorderColor     string
	BorderRadius    string

	Extra []Declaration
}

// ParseStyle разбирает строку CSS-деклараций ("prop: value; ...").
// Значения сохраняются как написаны, пробелы схлопываются до одного.
// Некорректная декларация пропускается до следующей ';', остальные читаются дальше.
func ParseStyle(s string) Style {
	const (
		stateProperty = iota
		stateColon
		stateValue
		stateSkip
	)

	var st Style
	var (
		property string
		value    strings.Builder
		state    = stateProperty
		depth    = 0
	)
	reset := func(next int) {
		property, depth, state = "", 0, next
		value.Reset()
	}

	l := css.NewLexer(parse.NewInputString(s))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if state == stateValue {
				st.Set(property, value.String())
			}
			return st
		}

		switch state {
		case stateProperty:
			switch tt {
			case css.WhitespaceToken, css.CommentToken, css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			case css.IdentToken, css.CustomPropertyNameToken:
				property, state = string(data), stateColon
			default:
				reset(stateSkip)
			}
		case stateColon:
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
			case css.ColonToken:
				state = stateValue
			case css.SemicolonToken:
				reset(stateProperty)
			default:
				reset(stateSkip)
			}
		case stateValue:
			switch tt {
			case css.SemicolonToken:
				if depth == 0 {
					st.Set(property, value.String())
					reset(stateProperty)
					continue
				}
			case css.LeftBraceToken, css.RightBraceToken:
				if depth == 0 {
					reset(stateSkip)
					continue
				}
			case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
				depth++
			case css.RightParenthesisToken, css.RightBracketToken:
				if depth > 0 {
					depth--
				}
			case css.CommentToken:
				continue
			case css.WhitespaceToken:
				if b := value.String(); b != "" && b[len(b)-1] != ' ' {
					value.WriteByte(' ')
				}
				continue
			}
			value.Write(data)
		case stateSkip:
			if tt == css.SemicolonToken {
				reset(stateProperty)
			}
		}
	}
}

// Set заменяет значение свойства или добавляет новое; пустое значение удаляет свойство.
func (s *Style) Set(property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";"))
	if property == "" {
		return
	}
	s.Unset(property)
	if value == "" {
		return
	}

	switch property {
	case "font-size":
		if px, ok := parsePx(value); ok {
			s.FontSize = &px
			return
		}
	case "font-weight":
		s.FontWeight = value
		return
	case "font-style":
		s.FontStyle = value
		return
	case "text-decoration":
		s.TextDecoration = value
		return
	case "text-align":
		s.TextAlign = value
		return
	case "color":
		s.Color = value
		return
	case "background-color":
		s.BackgroundColor = value
		return
	case "opacity":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			s.Opacity = &f
			return
		}
	case "border-width":
		if px, ok := parsePx(value); ok {
			s.BorderWidth = &px
			return
		}
	case "border-style":
		s.BorderStyle = value
		return
	case "border-color":
		s.BorderColor = value
		return
	case "border-radius":
		s.BorderRadius = value
		return
	case "border":
		if s.setBorder(value) {
			return
		}
	}
	s.Extra = append(s.Extra, Declaration{Property: property, Value: value})
}

// setBorder раскладывает сокращение border на ширину, стиль и цвет.
func (s *Style) setBorder(value string) bool {
	var width *float64
	var style, color string
	for _, part := range splitValue(value) {
		if px, ok := parsePx(part); ok && width == nil {
			width = &px
		} else if borderStyles[part] && style == "" {
			style = part
		} else if color == "" {
			color = part
		} else {
			return false
		}
	}
	s.BorderWidth, s.BorderStyle, s.BorderColor = width, style, color
	return true
}

// Get возвращает значение свойства в CSS-записи.
func (s Style) Get(property string) (string, bool) {
	property = strings.ToLower(strings.TrimSpace(property))
	for _, d := range s.declarations() {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Unset удаляет свойство. Для border удаляются все три составляющие.
func (s *Style) Unset(property string) {
	switch property {
	case "font-size":
		s.FontSize = nil
	case "font-weight":
		s.FontWeight = ""
	case "font-style":
		s.FontStyle = ""
	case "text-decoration":
		s.TextDecoration = ""
	case "text-align":
		s.TextAlign = ""
	case "color":
		s.Color = ""
	case "background-color":
		s.BackgroundColor = ""
	case "opacity":
		s.Opacity = nil
	case "border-width":
		s.BorderWidth = nil
	case "border-style":
		s.BorderStyle = ""
	case "border-color":
		s.BorderColor = ""
	case "border-radius":
		s.BorderRadius = ""
	case "border":
		s.BorderWidth, s.BorderStyle, s.BorderColor = nil, "", ""
	}

	extra := s.Extra[:0:0]
	for _, d := range s.Extra {
		if d.Property != property {
			extra = append(extra, d)
		}
	}
	if len(extra) == 0 {
		extra = nil
	}
	s.Extra = extra
}

func (s Style) IsZero() bool {
	return len(s.declarations()) == 0
}

func (s Style) Clone() Style {
	if s.FontSize != nil {
		v := *s.FontSize
		s.FontSize = &v
	}
	if s.Opacity != nil {
		v := *s.Opacity
		s.Opacity = &v
	}
	if s.BorderWidth != nil {
		v := *s.BorderWidth
		s.BorderWidth = &v
	}
	if s.Extra != nil {
		s.Extra = append([]Declaration(nil), s.Extra...)
	}
	return s
}

// Scaled возвращает копию с пересчитанными размерами для миниатюры:
// font-size (не меньше minFont), а также width/height в px из дополнительных деклараций.
func (s Style) Scaled(factor, minFont float64) Style {
	out := s.Clone()
	if out.FontSize != nil {
		v := math.Max(minFont, *out.FontSize*factor)
		out.FontSize = &v
	}
	for i, d := range out.Extra {
		if d.Property != "width" && d.Property != "height" {
			continue
		}
		if px, ok := parsePx(d.Value); ok {
			out.Extra[i].Value = formatPx(px * factor)
		}
	}
	return out
}

// String собирает строку estilo в фиксированном порядке свойств.
func (s Style) String() string {
	var b strings.Builder
	for i, d := range s.declarations() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

func (s Style) declarations() []Declaration {
	var out []Declaration
	add := func(prop, value string) {
		if value != "" {
			out = append(out, Declaration{Property: prop, Value: value})
		}
	}
	if s.FontSize != nil {
		add("font-size", formatPx(*s.FontSize))
	}
	add("font-weight", s.FontWeight)
	add("font-style", s.FontStyle)
	add("text-decoration", s.TextDecoration)
	add("text-align", s.TextAlign)
	add("color", s.Color)
	add("background-color", s.BackgroundColor)
	if s.Opacity != nil {
		add("opacity", strconv.FormatFloat(*s.Opacity, 'f', -1, 64))
	}
	if s.BorderWidth != nil {
		add("border-width", formatPx(*s.BorderWidth))
	}
	add("border-style", s.BorderStyle)
	add("border-color", s.BorderColor)
	add("border-radius", s.BorderRadius)
	return append(out, s.Extra...)
}

func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Style) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseStyle(raw)
	return nil
}

// ============================================================
// Helpers
// ============================================================

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// ParsePx разбирает длину вида "16px" или "0".
func ParsePx(v string) (float64, bool) {
	return parsePx(v)
}

func parsePx(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "0" {
		return 0, true
	}
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "px")), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatPx(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

// splitValue делит значение по пробелам верхнего уровня, не разрывая rgb(...).
func splitValue(v string) []string {
	var parts []string
	depth, start := 0, -1
	for i, r := range v {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ' ' || r == '\t' || r == '\n':
			if depth == 0 {
				if start >= 0 {
					parts = append(parts, v[start:i])
					start = -1
				}
				continue
			}
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, v[start:])
	}
	return parts
}
