package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Config holds the classifier thresholds. Hue values are OpenCV-scaled
// (0-180); the marker color wraps across the hue origin, so it is selected
// by two disjoint bands: [0, LowHueMax] and [HighHueMin, 180].
type Config struct {
	LowHueMax     float64
	HighHueMin    float64
	MinSaturation float64
	MinValue      float64

	// Area gate in px^2, exclusive on both ends.
	MinArea float64
	MaxArea float64

	// Shape gates: convexity defects and simplified-polygon vertices.
	MinDefects  int
	MinVertices int

	// Side of the square morphology kernel.
	KernelSize int
}

// DefaultConfig returns thresholds tuned for a red arrow marker under
// indoor lighting.
func DefaultConfig() Config {
	return Config{
		LowHueMax:     10,
		HighHueMin:    170,
		MinSaturation: 100,
		MinValue:      70,
		MinArea:       300,
		MaxArea:       50000,
		MinDefects:    2,
		MinVertices:   5,
		KernelSize:    5,
	}
}

// Classifier detects arrow markers in BGR frames.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns every marker detected in the frame, in contour-discovery
// order. Index 0 is the first region found, not the largest; callers that
// take a single candidate per tick rely on that convention.
//
// The frame is borrowed from the caller and never modified.
func (c *Classifier) Classify(frame gocv.Mat) []Detection {
	if frame.Empty() {
		return nil
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	mask := c.colorMask(hsv)
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var out []Detection
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if det, ok := c.classifyContour(contour); ok {
			out = append(out, det)
		}
	}
	return out
}

// colorMask builds the cleaned binary marker mask: two hue bands OR-ed,
// then one morphological close and one open to drop speckle noise.
func (c *Classifier) colorMask(hsv gocv.Mat) gocv.Mat {
	lowBand := gocv.NewMat()
	defer lowBand.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(0, c.cfg.MinSaturation, c.cfg.MinValue, 0),
		gocv.NewScalar(c.cfg.LowHueMax, 255, 255, 0),
		&lowBand)

	highBand := gocv.NewMat()
	defer highBand.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(c.cfg.HighHueMin, c.cfg.MinSaturation, c.cfg.MinValue, 0),
		gocv.NewScalar(180, 255, 255, 0),
		&highBand)

	mask := gocv.NewMat()
	gocv.BitwiseOr(lowBand, highBand, &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(c.cfg.KernelSize, c.cfg.KernelSize))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	return mask
}

// classifyContour applies the area and shape gates to one region and, if it
// survives, labels it by principal-axis direction.
func (c *Classifier) classifyContour(contour gocv.PointVector) (Detection, bool) {
	area := gocv.ContourArea(contour)
	if area <= c.cfg.MinArea || area >= c.cfg.MaxArea {
		return Detection{}, false
	}

	// An arrowhead has concave notches; a convex blob of the right color
	// and size does not. Hull indices (not points) are required by
	// ConvexityDefects.
	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(contour, &hull, false, false)

	defectCount := 0
	if hull.Rows() > 3 {
		defects := gocv.NewMat()
		gocv.ConvexityDefects(contour, hull, &defects)
		defectCount = defects.Rows()
		defects.Close()
	}
	if defectCount < c.cfg.MinDefects {
		return Detection{}, false
	}

	epsilon := 0.02 * gocv.ArcLength(contour, true)
	approx := gocv.ApproxPolyDP(contour, epsilon, true)
	defer approx.Close()
	if approx.Size() < c.cfg.MinVertices {
		return Detection{}, false
	}

	centroid, ok := polygonCentroid(approx.ToPoints())
	if !ok {
		return Detection{}, false
	}

	angle, ok := PrincipalAngle(contour.ToPoints())
	if !ok {
		return Detection{}, false
	}

	return Detection{
		Direction: DirectionForAngle(angle),
		Centroid:  centroid,
	}, true
}
