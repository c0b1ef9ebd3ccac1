package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Габариты, в которые вписывается изображение. Пропорции сохраняются,
// изображения меньше рамки не увеличиваются.
const (
	MaxWidth  = 1200
	MaxHeight = 900
)

// DefaultQuality - качество итогового JPEG
const DefaultQuality = 80

// Processor приводит загруженные изображения к единому виду:
// вписывает в рамку MaxWidth x MaxHeight и перекодирует в JPEG
type Processor struct {
	quality int
}

// NewProcessor создает процессор изображений
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{quality: quality}
}

// Normalize декодирует изображение (jpeg/png/gif), уменьшает до рамки
// и возвращает JPEG-байты
func (p *Processor) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.fit(img, MaxWidth, MaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return buf.Bytes(), nil
}

// fit уменьшает изображение так, чтобы оно поместилось в maxWidth x maxHeight
// с сохранением пропорций. Изображение внутри рамки возвращается как есть.
func (p *Processor) fit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratioW := float64(maxWidth) / float64(width)
	ratioH := float64(maxHeight) / float64(height)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}

	newWidth := int(float64(width) * ratio)
	newHeight := int(float64(height) * ratio)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}
