package raster

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ============================================================
// Images
// ============================================================

const maxImageBytes = 8 << 20

// fetchImage скачивает и декодирует изображение.
func (r *Rasterizer) fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// containBox вписывает изображение w×h в рамку bw×bh с сохранением пропорций
// и центрирует его. Возвращает смещение и размер внутри рамки.
func containBox(w, h, bw, bh float64) (dx, dy, cw, ch float64) {
	if w <= 0 || h <= 0 || bw <= 0 || bh <= 0 {
		return 0, 0, 0, 0
	}
	k := math.Min(bw/w, bh/h)
	cw, ch = w*k, h*k
	return (bw - cw) / 2, (bh - ch) / 2, cw, ch
}

// scaleImage пересэмплирует изображение до pw×ph пикселей.
func scaleImage(src image.Image, pw, ph int) image.Image {
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	if b := src.Bounds(); b.Dx() == pw && b.Dy() == ph {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
