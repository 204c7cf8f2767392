package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"eco-editor/internal/layout/models"
	"eco-editor/internal/layout/validator"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/test"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	test.Error(t, err)
	return img
}

func near(t *testing.T, got color.Color, want color.NRGBA) {
	t.Helper()
	n := color.NRGBAModel.Convert(got).(color.NRGBA)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	test.That(t, diff(n.R, want.R) < 8 && diff(n.G, want.G) < 8 && diff(n.B, want.B) < 8, "color", n, "want", want)
}

func TestPNGSizeAndShapes(t *testing.T) {
	doc := models.NewDocument()
	doc.Configuracion = models.Canvas{Fondo: "#ffffff", Ancho: 100, Alto: 80}
	doc.Elementos = []models.Element{
		{
			Tipo:        models.TypeShape,
			Forma:       models.ShapeRectangle,
			Estilo:      models.ParseStyle("background-color: #ff0000;"),
			Posicion:    models.Position{X: 10, Y: 10},
			Dimensiones: models.Dimensions{Ancho: 40, Alto: 20},
			ZIndex:      2,
		},
		{
			Tipo:        models.TypeShape,
			Forma:       models.ShapeRectangle,
			Estilo:      models.ParseStyle("background-color: #0000ff;"),
			Posicion:    models.Position{X: 0, Y: 0},
			Dimensiones: models.Dimensions{Ancho: 30, Alto: 30},
			ZIndex:      1,
		},
	}

	out, err := New(nil, nil).PNG(context.Background(), doc, 2)
	test.Error(t, err)

	img := decode(t, out)
	test.T(t, img.Bounds().Dx(), 200)
	test.T(t, img.Bounds().Dy(), 160)

	// красный поверх синего
	near(t, img.At(40, 40), color.NRGBA{255, 0, 0, 255})
	near(t, img.At(10, 10), color.NRGBA{0, 0, 255, 255})
	near(t, img.At(190, 150), color.NRGBA{255, 255, 255, 255})
}

func TestPNGCircleCorners(t *testing.T) {
	doc := models.NewDocument()
	doc.Configuracion = models.Canvas{Fondo: "#ffffff", Ancho: 100, Alto: 100}
	doc.Elementos = []models.Element{{
		Tipo:        models.TypeShape,
		Forma:       models.ShapeCircle,
		Estilo:      models.ParseStyle("background-color: #00ff00;"),
		Dimensiones: models.Dimensions{Ancho: 100, Alto: 100},
	}}

	out, err := New(nil, nil).PNG(context.Background(), doc, 1)
	test.Error(t, err)
	img := decode(t, out)
	near(t, img.At(50, 50), color.NRGBA{0, 255, 0, 255})
	near(t, img.At(2, 2), color.NRGBA{255, 255, 255, 255})
}

func TestPNGText(t *testing.T) {
	doc := models.NewDocument()
	doc.Configuracion = models.Canvas{Fondo: "#ffffff", Ancho: 200, Alto: 100}
	doc.Elementos = []models.Element{{
		Tipo:        models.TypeText,
		Contenido:   "<b>Bosque</b> vivo",
		Estilo:      models.ParseStyle("font-size: 40px; color: #000000; text-decoration: underline;"),
		Posicion:    models.Position{X: 0, Y: 0},
		Dimensiones: models.Dimensions{Ancho: 200, Alto: 100},
	}}

	out, err := New(nil, nil).PNG(context.Background(), doc, 1)
	test.Error(t, err)
	img := decode(t, out)

	dark := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r < 0x4000 {
				dark++
			}
		}
	}
	test.That(t, dark > 50, "text pixels", dark)
}

func TestPNGImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var pngBytes bytes.Buffer
	test.Error(t, png.Encode(&pngBytes, src))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.png" {
			w.Write([]byte("not an image"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes.Bytes())
	}))
	defer server.Close()

	doc := models.NewDocument()
	doc.Configuracion = models.Canvas{Fondo: "#ffffff", Ancho: 100, Alto: 100}
	doc.Elementos = []models.Element{
		{
			Tipo:        models.TypeImage,
			URL:         server.URL + "/arbol.png",
			Dimensiones: models.Dimensions{Ancho: 100, Alto: 100},
		},
		{
			Tipo:        models.TypeImage,
			URL:         server.URL + "/broken.png",
			Dimensiones: models.Dimensions{Ancho: 10, Alto: 10},
		},
		{
			Tipo:        models.TypeImage,
			URL:         "https://evil.example/x.png",
			Dimensiones: models.Dimensions{Ancho: 10, Alto: 10},
		},
	}

	r := New(validator.New([]string{"127.0.0.1"}, 1000), server.Client())
	out, err := r.PNG(context.Background(), doc, 1)
	test.Error(t, err)
	img := decode(t, out)

	// 4×2 вписано в 100×100: полоса высотой 50 по центру
	near(t, img.At(50, 50), color.NRGBA{0, 0, 255, 255})
	near(t, img.At(50, 10), color.NRGBA{255, 255, 255, 255})
	near(t, img.At(50, 90), color.NRGBA{255, 255, 255, 255})
}

func TestContainBox(t *testing.T) {
	dx, dy, w, h := containBox(400, 200, 100, 100)
	test.Float(t, dx, 0)
	test.Float(t, dy, 25)
	test.Float(t, w, 100)
	test.Float(t, h, 50)

	_, _, w, h = containBox(0, 10, 100, 100)
	test.Float(t, w, 0)
	test.Float(t, h, 0)
}

func TestRadius(t *testing.T) {
	test.Float(t, radius("50%", 40, 20), 10)
	test.Float(t, radius("8px", 40, 20), 8)
	test.Float(t, radius("", 40, 20), 0)
	test.Float(t, radius("auto", 40, 20), 0)
}

func TestFontStyle(t *testing.T) {
	test.T(t, fontStyle("bold", "italic"), canvas.FontBold|canvas.FontItalic)
	test.T(t, fontStyle("700", ""), canvas.FontBold)
	test.T(t, fontStyle("normal", "normal"), canvas.FontRegular)
}
