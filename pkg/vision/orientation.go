package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PrincipalAngle returns the angle, in degrees in (-180, 180], of the first
// principal component of the point cloud. It reports false for degenerate
// inputs (fewer than two points or zero variance).
//
// The eigenvector's sign is arbitrary, so the angle is only meaningful
// modulo 180 degrees: a shape and its 180-degree twin yield the same axis.
// Callers that need a full orientation must add their own asymmetry test.
func PrincipalAngle(points []image.Point) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}

	var mx, my float64
	for _, p := range points {
		mx += float64(p.X)
		my += float64(p.Y)
	}
	n := float64(len(points))
	mx /= n
	my /= n

	// 2x2 covariance of the boundary points
	var cxx, cxy, cyy float64
	for _, p := range points {
		dx := float64(p.X) - mx
		dy := float64(p.Y) - my
		cxx += dx * dx
		cxy += dx * dy
		cyy += dy * dy
	}
	cxx /= n
	cxy /= n
	cyy /= n

	if cxx == 0 && cxy == 0 && cyy == 0 {
		return 0, false
	}

	cov := mat.NewSymDense(2, []float64{cxx, cxy, cxy, cyy})
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return 0, false
	}

	// EigenSym orders eigenvalues ascending; column 1 is the principal axis.
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	ex := vecs.At(0, 1)
	ey := vecs.At(1, 1)

	return math.Atan2(ey, ex) * 180 / math.Pi, true
}

// DirectionForAngle buckets a principal-axis angle (degrees) into a
// Direction. Quadrants are 90 degrees wide, offset -45 degrees from the
// axes, boundary-inclusive on the lower edge:
//
//	[-45,  45) -> Right
//	[ 45, 135) -> Back
//	[-135,-45) -> Front
//	otherwise  -> Left
func DirectionForAngle(deg float64) Direction {
	switch {
	case deg >= -45 && deg < 45:
		return Right
	case deg >= 45 && deg < 135:
		return Back
	case deg >= -135 && deg < -45:
		return Front
	default:
		return Left
	}
}

// polygonCentroid returns the area centroid of a closed polygon via its
// first moments. It reports false when the zeroth moment (signed area) is
// zero, which covers collinear and self-cancelling outlines.
func polygonCentroid(pts []image.Point) (image.Point, bool) {
	if len(pts) < 3 {
		return image.Point{}, false
	}

	var m00, m10, m01 float64
	for i := range pts {
		p := pts[i]
		q := pts[(i+1)%len(pts)]
		cross := float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
		m00 += cross
		m10 += (float64(p.X) + float64(q.X)) * cross
		m01 += (float64(p.Y) + float64(q.Y)) * cross
	}
	if m00 == 0 {
		return image.Point{}, false
	}

	cx := m10 / (3 * m00)
	cy := m01 / (3 * m00)
	return image.Pt(int(math.Round(cx)), int(math.Round(cy))), true
}
