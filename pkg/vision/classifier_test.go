package vision

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

var (
	// Pure red lands in the low hue band after BGR→HSV.
	markerRed = color.RGBA{R: 255, A: 255}
	// Red with a trace of blue wraps to the high hue band (~175 in
	// OpenCV's 0-180 scale).
	markerWrapped = color.RGBA{R: 255, B: 43, A: 255}
)

// arrowBase is a right-pointing arrow: a 70x30 shaft with a triangular
// head, two concave notches where shaft meets head. Area 3500 px^2 at
// scale 1.
var arrowBase = []image.Point{
	{20, 40}, {90, 40}, {90, 20}, {130, 55}, {90, 90}, {90, 70}, {20, 70},
}

func newFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC3)
}

func fillPoly(frame *gocv.Mat, pts []image.Point, c color.RGBA) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(frame, pv, c)
}

func scaled(pts []image.Point, scale float64, offset image.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(
			offset.X+int(float64(p.X)*scale),
			offset.Y+int(float64(p.Y)*scale),
		)
	}
	return out
}

func TestClassify_ArrowDetected(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	fillPoly(&frame, arrowBase, markerRed)

	dets := NewClassifier(DefaultConfig()).Classify(frame)
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}

	// The principal axis is horizontal; its sign is ambiguous, so either
	// horizontal label is acceptable.
	if d := dets[0].Direction; d != Right && d != Left {
		t.Errorf("direction = %v, want Right or Left", d)
	}

	c := dets[0].Centroid
	if c.X < 20 || c.X > 130 || c.Y < 20 || c.Y > 90 {
		t.Errorf("centroid %v outside the marker's bounding box", c)
	}
}

func TestClassify_HighHueBandDetected(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	fillPoly(&frame, arrowBase, markerWrapped)

	dets := NewClassifier(DefaultConfig()).Classify(frame)
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1 from the wrapped hue band", len(dets))
	}
}

func TestClassify_WrongColorIgnored(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	fillPoly(&frame, arrowBase, color.RGBA{G: 255, A: 255})

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 0 {
		t.Errorf("got %d detections for a green marker, want 0", len(dets))
	}
}

func TestClassify_SpeckRejected(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	// A quarter-scale arrow: right shape, ~219 px^2, under the area floor.
	fillPoly(&frame, scaled(arrowBase, 0.25, image.Pt(40, 40)), markerRed)

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 0 {
		t.Errorf("got %d detections for a sub-minimum region, want 0", len(dets))
	}
}

func TestClassify_OversizedRejected(t *testing.T) {
	frame := newFrame(640, 480)
	defer frame.Close()
	// Same shape at 4x: ~56000 px^2, over the area ceiling.
	fillPoly(&frame, scaled(arrowBase, 4, image.Pt(0, 0)), markerRed)

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 0 {
		t.Errorf("got %d detections for an oversized region, want 0", len(dets))
	}
}

func TestClassify_ConvexBlobRejected(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	// Admissible area and color, but no concave notches.
	fillPoly(&frame, []image.Point{
		{60, 60}, {120, 60}, {120, 120}, {60, 120},
	}, markerRed)

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 0 {
		t.Errorf("got %d detections for a convex square, want 0", len(dets))
	}
}

func TestClassify_TooFewVerticesRejected(t *testing.T) {
	frame := newFrame(320, 240)
	defer frame.Close()
	// A triangle simplifies to three vertices, below the polygon floor.
	fillPoly(&frame, []image.Point{
		{60, 140}, {160, 140}, {110, 50},
	}, markerRed)

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 0 {
		t.Errorf("got %d detections for a triangle, want 0", len(dets))
	}
}

func TestClassify_MultipleMarkers(t *testing.T) {
	frame := newFrame(640, 480)
	defer frame.Close()
	fillPoly(&frame, arrowBase, markerRed)
	fillPoly(&frame, scaled(arrowBase, 1, image.Pt(300, 200)), markerRed)

	if dets := NewClassifier(DefaultConfig()).Classify(frame); len(dets) != 2 {
		t.Errorf("got %d detections, want 2", len(dets))
	}
}

func TestClassify_EmptyFrame(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if dets := NewClassifier(DefaultConfig()).Classify(empty); dets != nil {
		t.Errorf("got %v for an empty frame, want nil", dets)
	}
}
