package domain

import "image"

// Slot is a placement on the composed canvas: the layer is fitted to Size and
// centered on Anchor.
type Slot struct {
	Anchor image.Point
	Size   image.Point
}

// Origin is the top-left corner of the slot on the canvas.
func (s Slot) Origin() image.Point {
	return s.Anchor.Sub(s.Size.Div(2))
}

func (s Slot) Rect() image.Rectangle {
	origin := s.Origin()
	return image.Rectangle{Min: origin, Max: origin.Add(s.Size)}
}

type Layout struct {
	Decoration Slot
	Slots      [MaxPicks]Slot
}

// TreeLayout places ornaments top to bottom, widening toward the base.
var TreeLayout = Layout{
	Decoration: Slot{Anchor: image.Pt(512, 1251), Size: image.Pt(700, 700)},
	Slots: [MaxPicks]Slot{
		{Anchor: image.Pt(512, 184), Size: image.Pt(400, 400)},
		{Anchor: image.Pt(400, 430), Size: image.Pt(450, 450)},
		{Anchor: image.Pt(600, 430), Size: image.Pt(450, 450)},
		{Anchor: image.Pt(300, 750), Size: image.Pt(500, 500)},
		{Anchor: image.Pt(700, 750), Size: image.Pt(500, 500)},
		{Anchor: image.Pt(230, 1070), Size: image.Pt(550, 550)},
		{Anchor: image.Pt(800, 1070), Size: image.Pt(550, 550)},
	},
}

const (
	AssetBackground = "tree.png"
	AssetDecoration = "final_santa.png"
	AssetCover      = "santa.png"
	AssetProcessing = "processing.png"
)

func CandidateAsset(id CandidateID) string {
	return string(id) + ".png"
}
