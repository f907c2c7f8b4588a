// Package compose renders the decorated tree: a background canvas with a
// decoration and one fitted ornament per picked candidate.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/ports"
	xdraw "golang.org/x/image/draw"
)

// Layer is one decoded asset. A layer with Err set or no Image is skipped.
type Layer struct {
	Name  string
	Image image.Image
	Err   error
}

type Layers struct {
	Background image.Image
	Decoration Layer
	Slots      []Layer
}

type Engine struct {
	assets ports.AssetSource
	layout domain.Layout
	logger *slog.Logger
}

var _ ports.Composer = (*Engine)(nil)

func NewEngine(assets ports.AssetSource, layout domain.Layout, logger *slog.Logger) *Engine {
	return &Engine{assets: assets, layout: layout, logger: applog.OrDiscard(logger)}
}

// Render loads the assets for picked and composes them. Only a missing
// background is an error; any other unreadable asset is left out.
func (e *Engine) Render(ctx context.Context, picked []domain.CandidateID) ([]byte, error) {
	background, err := e.assets.Image(ctx, domain.AssetBackground)
	if err != nil {
		return nil, fmt.Errorf("load background: %w", err)
	}

	layers := Layers{Background: background}
	layers.Decoration = e.load(ctx, domain.AssetDecoration)
	for i, id := range picked {
		if i >= len(e.layout.Slots) {
			break
		}
		layers.Slots = append(layers.Slots, e.load(ctx, domain.CandidateAsset(id)))
	}

	return e.Compose(layers)
}

func (e *Engine) load(ctx context.Context, name string) Layer {
	img, err := e.assets.Image(ctx, name)
	return Layer{Name: name, Image: img, Err: err}
}

// Compose draws layers onto a copy of the background and encodes the result
// as PNG. Output depends only on the input pixels.
func (e *Engine) Compose(layers Layers) ([]byte, error) {
	if layers.Background == nil {
		return nil, fmt.Errorf("compose: %w: background", domain.ErrAssetNotFound)
	}

	bounds := layers.Background.Bounds()
	canvas := image.NewRGBA(bounds)
	xdraw.Draw(canvas, bounds, layers.Background, bounds.Min, xdraw.Src)

	e.paste(canvas, layers.Decoration, e.layout.Decoration)
	for i, layer := range layers.Slots {
		if i >= len(e.layout.Slots) {
			e.logger.Warn("more ornaments than slots, ignoring the rest", "slots", len(e.layout.Slots), "layers", len(layers.Slots))
			break
		}
		e.paste(canvas, layer, e.layout.Slots[i])
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *Engine) paste(canvas *image.RGBA, layer Layer, slot domain.Slot) {
	if layer.Err != nil || layer.Image == nil {
		err := layer.Err
		if err == nil {
			err = domain.ErrAssetNotFound
		}
		e.logger.Error("skipping layer", "asset", layer.Name, "error", err)
		return
	}

	fitted := Fit(layer.Image, slot.Size)
	rect := slot.Rect().Add(canvas.Bounds().Min)
	xdraw.Draw(canvas, rect, fitted, image.Point{}, xdraw.Over)
}
