package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"eco-editor/internal/layout/models"

	"github.com/mazznoer/csscolorparser"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ============================================================
// Errors
// ============================================================

var ErrInvalidDocument = errors.New("invalid document")

// ElementError - первый отклонённый элемент документа.
type ElementError struct {
	Index  int
	Reason string
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %s", e.Index, e.Reason)
}

func (e *ElementError) Unwrap() error {
	return ErrInvalidDocument
}

// ============================================================
// Validator
// ============================================================

type Validator struct {
	hosts         []string
	maxTextLength int
}

func New(allowedHosts []string, maxTextLength int) *Validator {
	return &Validator{hosts: allowedHosts, maxTextLength: maxTextLength}
}

func (v *Validator) MaxTextLength() int {
	return v.maxTextLength
}

// ImageURL принимает только абсолютные http(s) адреса, хост которых содержит один из разрешённых.
func (v *Validator) ImageURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, allowed := range v.hosts {
		if allowed != "" && strings.Contains(host, allowed) {
			return true
		}
	}
	return false
}

// Document проверяет сырой JSON документа целиком и декодирует его.
// Первый невалидный элемент отклоняет весь документ.
func (v *Validator) Document(raw []byte) (models.Document, error) {
	if !gjson.ValidBytes(raw) {
		return models.Document{}, fmt.Errorf("%w: malformed json", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return models.Document{}, fmt.Errorf("%w: document must be an object", ErrInvalidDocument)
	}

	elements := root.Get("elementos")
	if elements.Exists() && !elements.IsArray() {
		return models.Document{}, fmt.Errorf("%w: elementos must be an array", ErrInvalidDocument)
	}

	var (
		index  int
		outErr error
		legacy []int
	)
	elements.ForEach(func(_, el gjson.Result) bool {
		if reason := v.element(el); reason != "" {
			outErr = &ElementError{Index: index, Reason: reason}
			return false
		}
		if el.Get("tipo").String() == string(models.TypeImage) && !el.Get("url").Exists() {
			legacy = append(legacy, index)
		}
		index++
		return true
	})
	if outErr != nil {
		return models.Document{}, outErr
	}

	if err := v.canvas(root.Get("configuracion")); err != nil {
		return models.Document{}, err
	}

	// старые изображения хранили адрес в contenido
	for _, i := range legacy {
		src := root.Get(fmt.Sprintf("elementos.%d.contenido", i)).String()
		var err error
		if raw, err = sjson.SetBytes(raw, fmt.Sprintf("elementos.%d.url", i), src); err != nil {
			return models.Document{}, fmt.Errorf("normalize element %d: %w", i, err)
		}
		if raw, err = sjson.DeleteBytes(raw, fmt.Sprintf("elementos.%d.contenido", i)); err != nil {
			return models.Document{}, fmt.Errorf("normalize element %d: %w", i, err)
		}
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Validate проверяет уже декодированный документ по тем же правилам.
func (v *Validator) Validate(doc models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	_, err = v.Document(raw)
	return err
}

// element возвращает причину отказа или пустую строку.
func (v *Validator) element(el gjson.Result) string {
	if !el.IsObject() {
		return "element must be an object"
	}

	tipo := el.Get("tipo")
	if tipo.Type != gjson.String || !models.ElementType(tipo.String()).Valid() {
		return fmt.Sprintf("unknown tipo %q", tipo.String())
	}

	pos := el.Get("posicion")
	if !pos.IsObject() {
		return "posicion required"
	}
	if pos.Get("x").Type != gjson.Number || pos.Get("y").Type != gjson.Number {
		return "posicion.x and posicion.y must be numeric"
	}
	if z := el.Get("zIndex"); z.Type != gjson.Number {
		return "zIndex must be numeric"
	} else if math.Abs(z.Float()) > models.ZIndexLimit {
		return fmt.Sprintf("zIndex out of range (|z| <= %d)", models.ZIndexLimit)
	}
	if el.Get("estilo").Type != gjson.String {
		return "estilo required"
	}

	if dims := el.Get("dimensiones"); dims.Exists() {
		if !dims.IsObject() {
			return "dimensiones must be an object"
		}
		for _, key := range []string{"ancho", "alto"} {
			if f := dims.Get(key); f.Exists() && f.Type != gjson.Number {
				return "dimensiones." + key + " must be numeric"
			}
		}
	}

	switch models.ElementType(tipo.String()) {
	case models.TypeText:
		content := el.Get("contenido")
		if content.Type != gjson.String {
			return "contenido required"
		}
		if len(content.String()) > v.maxTextLength {
			return fmt.Sprintf("contenido exceeds %d bytes", v.maxTextLength)
		}
	case models.TypeImage:
		src := el.Get("url")
		if !src.Exists() {
			src = el.Get("contenido")
		}
		if src.Type != gjson.String || !v.ImageURL(src.String()) {
			return "image url not allowed"
		}
	case models.TypeShape:
		if kind := el.Get("forma"); kind.Exists() {
			if kind.Type != gjson.String || !models.ShapeKind(kind.String()).Valid() {
				return fmt.Sprintf("unknown forma %q", kind.String())
			}
		}
	}
	return ""
}

func (v *Validator) canvas(cfg gjson.Result) error {
	if !cfg.Exists() {
		return nil
	}
	if !cfg.IsObject() {
		return fmt.Errorf("%w: configuracion must be an object", ErrInvalidDocument)
	}
	if fondo := cfg.Get("fondo"); fondo.Exists() {
		if fondo.Type != gjson.String || !Color(fondo.String()) {
			return fmt.Errorf("%w: invalid fondo %q", ErrInvalidDocument, fondo.String())
		}
	}
	for _, key := range []string{"ancho", "alto"} {
		if f := cfg.Get(key); f.Exists() && (f.Type != gjson.Number || f.Float() <= 0) {
			return fmt.Errorf("%w: configuracion.%s must be a positive number", ErrInvalidDocument, key)
		}
	}
	return nil
}

// ============================================================
// Colors
// ============================================================

// Color принимает любую запись цвета CSS: hex, rgb(), rgba(), hsl(), имена.
func Color(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := csscolorparser.Parse(s)
	return err == nil
}

// HexColor принимает только #rgb и #rrggbb.
func HexColor(s string) bool {
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
