package compose

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Fit crops src about its center to the aspect ratio of size, then scales the
// crop to exactly size. The result is never stretched or letterboxed.
func Fit(src image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	if size.X <= 0 || size.Y <= 0 || src.Bounds().Empty() {
		return dst
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, centerCrop(src.Bounds(), size), xdraw.Src, nil)
	return dst
}

func centerCrop(bounds image.Rectangle, size image.Point) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	cropW, cropH := w, h

	// Compare w/h against size.X/size.Y without floats.
	switch {
	case w*size.Y > h*size.X:
		cropW = max(1, (h*size.X+size.Y/2)/size.Y)
	case w*size.Y < h*size.X:
		cropH = max(1, (w*size.Y+size.X/2)/size.X)
	}

	x0 := bounds.Min.X + (w-cropW)/2
	y0 := bounds.Min.Y + (h-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}
