package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"eco-editor/internal/common/config"
	"eco-editor/internal/exporter/raster"
	"eco-editor/internal/layout/models"
	"eco-editor/internal/layout/render"
	"eco-editor/internal/layout/validator"

	"github.com/tdewolff/argp"
)

// ============================================================
// Layout CLI
// ============================================================

type Main struct{}

type Validate struct {
	Hosts   string `desc:"Allowed image hosts, comma separated"`
	MaxText int    `default:"1000" desc:"Maximum text length in bytes"`
	Input   string `index:"0" desc:"Document JSON file or - for stdin"`
}

type PNG struct {
	Hosts   string  `desc:"Allowed image hosts, comma separated"`
	Scale   float64 `short:"s" default:"2" desc:"PNG pixels per canvas pixel"`
	Timeout int     `default:"10" desc:"Image download timeout in seconds"`
	Output  string  `short:"o" desc:"Output filename"`
	Input   string  `index:"0" desc:"Document JSON file or - for stdin"`
}

type HTML struct {
	Hosts  string  `desc:"Allowed image hosts, comma separated"`
	Width  float64 `short:"w" desc:"Thumbnail width, full view when zero"`
	Height float64 `short:"h" desc:"Thumbnail height"`
	Output string  `short:"o" desc:"Output filename or - for stdout"`
	Input  string  `index:"0" desc:"Document JSON file or - for stdin"`
}

func main() {
	root := argp.NewCmd(&Main{}, "Layout document toolkit for the eco editor")
	root.AddCmd(&Validate{}, "validate", "Validate a layout document")
	root.AddCmd(&PNG{}, "png", "Render a layout document to PNG")
	root.AddCmd(&HTML{}, "html", "Render a layout document to HTML markup")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Main) Run() error {
	return argp.ShowUsage
}

func (cmd *Validate) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	doc, err := load(cmd.Input, newValidator(cmd.Hosts, cmd.MaxText))
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d elements, canvas %gx%g\n", len(doc.Elementos), doc.Configuracion.Ancho, doc.Configuracion.Alto)
	return nil
}

func (cmd *PNG) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	} else if cmd.Output == "" {
		fmt.Println("ERROR: must specify output filename")
		return argp.ShowUsage
	} else if cmd.Scale <= 0 || cmd.Scale > raster.MaxScale {
		return fmt.Errorf("scale must be in (0, %g]", raster.MaxScale)
	}

	v := newValidator(cmd.Hosts, 0)
	doc, err := load(cmd.Input, v)
	if err != nil {
		return err
	}

	r := raster.New(v, &http.Client{Timeout: time.Duration(cmd.Timeout) * time.Second})
	png, err := r.PNG(context.Background(), doc, cmd.Scale)
	if err != nil {
		return err
	}
	return os.WriteFile(cmd.Output, png, 0o644)
}

func (cmd *HTML) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	v := newValidator(cmd.Hosts, 0)
	doc, err := load(cmd.Input, v)
	if err != nil {
		return err
	}

	markup := renderHTML(render.NewRenderer(v), doc, cmd.Width, cmd.Height)
	if cmd.Output == "" || cmd.Output == "-" {
		_, err = io.WriteString(os.Stdout, markup+"\n")
		return err
	}
	return os.WriteFile(cmd.Output, []byte(markup), 0o644)
}

// ============================================================
// Helpers
// ============================================================

func newValidator(hosts string, maxText int) *validator.Validator {
	list := config.DefaultImageHosts
	if hosts != "" {
		list = nil
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				list = append(list, h)
			}
		}
	}
	if maxText <= 0 {
		maxText = 1000
	}
	return validator.New(list, maxText)
}

// load читает и проверяет документ; "-" означает stdin.
func load(path string, v *validator.Validator) (models.Document, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return models.Document{}, err
	}

	doc, err := v.Document(raw)
	if err != nil {
		return models.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func renderHTML(r *render.Renderer, doc models.Document, w, h float64) string {
	if w > 0 {
		return r.Thumbnail(doc, w, h)
	}
	return r.View(doc)
}
