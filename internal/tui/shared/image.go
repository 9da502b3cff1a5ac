package shared

import (
	"fmt"
	"image"

	"github.com/blacktop/go-termimg"
)

// RenderImages lays images out in a grid of cells, each w columns wide and
// h rows high. Halfblocks is used since it works in every terminal.
func RenderImages(images []image.Image, columns, w, h int) (string, error) {
	if len(images) == 0 {
		return "", nil
	}

	gallery := termimg.NewImageGallery(max(columns, 1))
	for _, img := range images {
		gallery.AddImage(termimg.New(img))
	}

	gallery.
		SetProtocol(termimg.Halfblocks).
		SetImageSize(w, h).
		SetSpacing(1)

	rendered, err := gallery.Render()
	if err != nil {
		return "", fmt.Errorf("render image gallery: %w", err)
	}

	return rendered, nil
}
