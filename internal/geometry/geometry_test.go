package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDenormalize_RoundTrip(t *testing.T) {
	rects := []PixelRect{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 123.5, Y: 77.25, Width: 400, Height: 300},
		{X: 1919, Y: 1079, Width: 1, Height: 1},
		{X: 0.001, Y: 999.999, Width: 3.3, Height: 7.7},
	}
	sizes := []ImageSize{{1, 1}, {800, 600}, {1920, 1080}, {10000, 3}}

	for _, size := range sizes {
		for _, r := range rects {
			r.Image = size
			back := Denormalize(Normalize(r), size)
			assert.InDelta(t, r.X, back.X, 1e-9)
			assert.InDelta(t, r.Y, back.Y, 1e-9)
			assert.InDelta(t, r.Width, back.Width, 1e-9)
			assert.InDelta(t, r.Height, back.Height, 1e-9)
			assert.Equal(t, size, back.Image)

			p := Point{X: r.X, Y: r.Y}
			pb := DenormalizePoint(NormalizePoint(p, size), size)
			assert.InDelta(t, p.X, pb.X, 1e-9)
			assert.InDelta(t, p.Y, pb.Y, 1e-9)
		}
	}
}

func TestDenormalizeRounded_WithinOnePixel(t *testing.T) {
	size := ImageSize{Width: 1366, Height: 768}
	r := NormalizedRect{X: 0.1234567, Y: 0.7654321, Width: 0.3333333, Height: 0.1111111}

	exact := Denormalize(r, size)
	rounded := DenormalizeRounded(r, size)

	for _, pair := range [][2]float64{
		{exact.X, rounded.X}, {exact.Y, rounded.Y},
		{exact.Width, rounded.Width}, {exact.Height, rounded.Height},
	} {
		assert.LessOrEqual(t, math.Abs(pair[0]-pair[1]), 1.0)
		assert.Equal(t, math.Round(pair[1]), pair[1])
	}

	pixels := PixelRect{X: 137, Y: 512, Width: 455, Height: 85, Image: size}
	assert.Equal(t, pixels, DenormalizeRounded(Normalize(pixels), size))
}

func TestConversion_PanicsOnInvalidImage(t *testing.T) {
	r := NormalizedRect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}

	assert.Panics(t, func() { Denormalize(r, ImageSize{Width: 0, Height: 100}) })
	assert.Panics(t, func() { Normalize(PixelRect{Width: 10, Height: 10, Image: ImageSize{Width: 100, Height: -1}}) })
	assert.Panics(t, func() { NormalizePoint(Point{}, ImageSize{}) })
	assert.Error(t, ImageSize{Width: 10}.Validate())
	assert.NoError(t, ImageSize{Width: 10, Height: 10}.Validate())
}

func TestDerivedValues(t *testing.T) {
	r := NormalizedRect{X: 0.1, Y: 0.2, Width: 0.4, Height: 0.2}

	assert.InDelta(t, 0.5, r.XEnd(), 1e-12)
	assert.InDelta(t, 0.4, r.YEnd(), 1e-12)
	assert.InDelta(t, 0.08, r.Area(), 1e-12)
	assert.InDelta(t, 0.3, r.Center().X, 1e-12)
	assert.InDelta(t, 0.3, r.Center().Y, 1e-12)
}

func TestValidate_BoundaryAccepted(t *testing.T) {
	res := Validate(NormalizedRect{X: 0, Y: 0, Width: 1, Height: 1})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidate_MinimumSize(t *testing.T) {
	ok := Validate(NormalizedRect{X: 0, Y: 0, Width: 0.005, Height: 0.005})
	assert.True(t, ok.Valid, ok.Errors)

	tooSmall := Validate(NormalizedRect{X: 0, Y: 0, Width: 0.0049, Height: 0.005})
	require.False(t, tooSmall.Valid)
	assert.Contains(t, tooSmall.Errors, "Width must be at least 0.005 (0.5% of image)")
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	res := Validate(NormalizedRect{X: 0.5, Y: 0.5, Width: 0.6, Height: 0.001})

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors, "Height must be at least 0.005 (0.5% of image)")
	assert.Contains(t, res.Errors, "Room extends beyond right edge of image (x + width > 1.0)")
	assert.Contains(t, res.Errors[2], "Aspect ratio is too extreme")

	var verr *ValidationError
	require.ErrorAs(t, res.Err(), &verr)
	assert.Equal(t, res.Errors, verr.Errors)
}

func TestValidate_EdgeHasNoSlack(t *testing.T) {
	flush := Validate(NormalizedRect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5})
	assert.True(t, flush.Valid, flush.Errors)

	past := Validate(NormalizedRect{X: 0.5, Y: 0.1, Width: 0.5000000005, Height: 0.5})
	require.False(t, past.Valid)
	assert.Equal(t, []string{"Room extends beyond right edge of image (x + width > 1.0)"}, past.Errors)
}

func TestValidate_RangeChecks(t *testing.T) {
	res := Validate(NormalizedRect{X: -0.1, Y: 1.2, Width: 0.2, Height: 0.2})

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "X coordinate must be between 0 and 1 (got -0.1)")
	assert.Contains(t, res.Errors, "Y coordinate must be between 0 and 1 (got 1.2)")
	assert.Contains(t, res.Errors, "Room extends beyond bottom edge of image (y + height > 1.0)")
}

func TestValidate_NaNIsRejected(t *testing.T) {
	res := Validate(NormalizedRect{X: math.NaN(), Y: 0.1, Width: 0.1, Height: 0.1})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "X coordinate")
}

func TestValidate_AspectRatio(t *testing.T) {
	assert.True(t, Validate(NormalizedRect{Width: 0.5, Height: 0.05}).Valid)
	assert.True(t, Validate(NormalizedRect{Width: 0.05, Height: 0.5}).Valid)

	wide := Validate(NormalizedRect{Width: 0.6, Height: 0.05})
	require.False(t, wide.Valid)
	assert.Equal(t, []string{"Aspect ratio is too extreme (12.00). Should be between 0.1 and 10"}, wide.Errors)
}

func TestValidate_EdgeDriftTolerated(t *testing.T) {
	size := ImageSize{Width: 3000, Height: 2000}
	r := Normalize(PixelRect{X: 2100, Y: 1400, Width: 900, Height: 600, Image: size})
	assert.True(t, Validate(r).Valid)
}

func TestCheckOverlap_Disjoint(t *testing.T) {
	res := CheckOverlap(OverlapQuery{
		Candidate: NormalizedRect{X: 0, Y: 0, Width: 0.2, Height: 0.2},
		Siblings:  []Sibling{{ID: "b", Rect: NormalizedRect{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.2}}},
	})
	assert.False(t, res.HasOverlap)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Percentages)
}

func TestCheckOverlap_NoSiblings(t *testing.T) {
	res := CheckOverlap(OverlapQuery{Candidate: NormalizedRect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}})
	assert.False(t, res.HasOverlap)
}

func TestCheckOverlap_SliverBelowTolerance(t *testing.T) {
	a := NormalizedRect{X: 0, Y: 0, Width: 0.2, Height: 0.2}
	b := NormalizedRect{X: 0.198, Y: 0, Width: 0.2, Height: 0.2}

	assert.InDelta(t, 0.01, OverlapFraction(a, b), 1e-9)

	res := CheckOverlap(OverlapQuery{Candidate: a, Siblings: []Sibling{{ID: "b", Rect: b}}})
	assert.False(t, res.HasOverlap)
}

func TestCheckOverlap_TouchingEdgesDoNotIntersect(t *testing.T) {
	a := NormalizedRect{X: 0, Y: 0, Width: 0.25, Height: 0.25}
	b := NormalizedRect{X: 0.25, Y: 0, Width: 0.25, Height: 0.25}

	_, ok := Intersection(a, b)
	assert.False(t, ok)
	assert.Zero(t, OverlapFraction(a, b))
}

func TestCheckOverlap_IdenticalRectangles(t *testing.T) {
	r := NormalizedRect{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}

	res := CheckOverlap(OverlapQuery{
		Candidate: r,
		Siblings:  []Sibling{{ID: "twin", Rect: r}},
		Tolerance: 1,
	})

	require.True(t, res.HasOverlap)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "twin", res.Conflicts[0].ID)
	assert.InDelta(t, 1.0, res.Conflicts[0].Fraction, 1e-12)
	assert.InDelta(t, 100.0, res.Percentages["twin"], 1e-9)
}

func TestCheckOverlap_SmallRoomInsideLargeIsFullConflict(t *testing.T) {
	hall := NormalizedRect{X: 0, Y: 0, Width: 0.8, Height: 0.8}
	closet := NormalizedRect{X: 0.3, Y: 0.3, Width: 0.02, Height: 0.02}

	res := CheckOverlap(OverlapQuery{Candidate: closet, Siblings: []Sibling{{ID: "hall", Rect: hall}}})
	require.True(t, res.HasOverlap)
	assert.InDelta(t, 100.0, res.Percentages["hall"], 1e-9)
}

func TestCheckOverlap_ExcludesSelf(t *testing.T) {
	r := NormalizedRect{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}
	siblings := []Sibling{
		{ID: "R", Rect: r},
		{ID: "far", Rect: NormalizedRect{X: 0.6, Y: 0.6, Width: 0.2, Height: 0.2}},
	}

	res := CheckOverlap(OverlapQuery{Candidate: r, Siblings: siblings, ExcludeID: "R"})
	assert.False(t, res.HasOverlap)

	res = CheckOverlap(OverlapQuery{Candidate: r, Siblings: siblings})
	assert.True(t, res.HasOverlap)
}

func TestCheckOverlap_ToleranceFallsBackToDefault(t *testing.T) {
	a := NormalizedRect{X: 0, Y: 0, Width: 0.2, Height: 0.2}
	b := NormalizedRect{X: 0.18, Y: 0, Width: 0.2, Height: 0.2} // 10%

	for _, tol := range []float64{0, -1, 1.5} {
		res := CheckOverlap(OverlapQuery{Candidate: a, Siblings: []Sibling{{ID: "b", Rect: b}}, Tolerance: tol})
		assert.True(t, res.HasOverlap, "tolerance %v", tol)
	}

	res := CheckOverlap(OverlapQuery{Candidate: a, Siblings: []Sibling{{ID: "b", Rect: b}}, Tolerance: 0.2})
	assert.False(t, res.HasOverlap)
}

func TestFindAtPoint(t *testing.T) {
	rooms := []Sibling{
		{ID: "hall", Rect: NormalizedRect{X: 0, Y: 0, Width: 0.8, Height: 0.8}},
		{ID: "closet", Rect: NormalizedRect{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}},
		{ID: "closet-2", Rect: NormalizedRect{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}},
	}

	got, ok := FindAtPoint(Point{X: 0.5, Y: 0.5}, rooms)
	require.True(t, ok)
	assert.Equal(t, "closet", got.ID)

	got, ok = FindAtPoint(Point{X: 0.6, Y: 0.6}, rooms)
	require.True(t, ok)
	assert.Equal(t, "closet", got.ID, "boundary counts as inside")

	got, ok = FindAtPoint(Point{X: 0.1, Y: 0.1}, rooms)
	require.True(t, ok)
	assert.Equal(t, "hall", got.ID)

	_, ok = FindAtPoint(Point{X: 0.9, Y: 0.9}, rooms)
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	a := NormalizedRect{X: 0, Y: 0, Width: 0.2, Height: 0.2}
	b := NormalizedRect{X: 0.3, Y: 0.4, Width: 0.2, Height: 0.2}
	assert.InDelta(t, 0.5, Distance(a, b), 1e-12)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-15)
}

func TestFindNeighbors(t *testing.T) {
	first := Sibling{ID: "a", Rect: NormalizedRect{X: 0.05, Y: 0.05, Width: 0.1, Height: 0.1}}
	second := Sibling{ID: "b", Rect: NormalizedRect{X: 0.1, Y: 0.05, Width: 0.1, Height: 0.1}}
	third := Sibling{ID: "c", Rect: NormalizedRect{X: 0.85, Y: 0.85, Width: 0.1, Height: 0.1}}
	all := []Sibling{first, second, third}

	got := FindNeighbors(first, all, 0.1)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	assert.Len(t, FindNeighbors(first, all, 0), 1, "zero distance falls back to default")
	assert.Len(t, FindNeighbors(first, all, 2), 2, "self is never returned")
}

func TestFromCornersAndClamp(t *testing.T) {
	r := FromCorners(Point{X: 0.6, Y: 0.2}, Point{X: 0.1, Y: 0.5})
	assert.InDelta(t, 0.1, r.X, 1e-12)
	assert.InDelta(t, 0.2, r.Y, 1e-12)
	assert.InDelta(t, 0.5, r.Width, 1e-12)
	assert.InDelta(t, 0.3, r.Height, 1e-12)

	c := Clamp(NormalizedRect{X: -0.2, Y: 0.9, Width: 0.5, Height: 0.5})
	assert.Equal(t, 0.0, c.X)
	assert.InDelta(t, 0.5, c.Width, 1e-12)
	assert.InDelta(t, 0.1, c.Height, 1e-12)
}

func TestBoundingBox(t *testing.T) {
	_, ok := BoundingBox(nil)
	assert.False(t, ok)

	box, ok := BoundingBox([]NormalizedRect{
		{X: 0.1, Y: 0.2, Width: 0.1, Height: 0.1},
		{X: 0.5, Y: 0.05, Width: 0.2, Height: 0.1},
	})
	require.True(t, ok)
	assert.InDelta(t, 0.1, box.X, 1e-12)
	assert.InDelta(t, 0.05, box.Y, 1e-12)
	assert.InDelta(t, 0.6, box.Width, 1e-12)
	assert.InDelta(t, 0.25, box.Height, 1e-12)
}

func TestViewport(t *testing.T) {
	v := FitViewport(ImageSize{Width: 2000, Height: 1000}, 200, 200, 10, 10)
	assert.InDelta(t, 0.1, v.Scale, 1e-12)
	assert.InDelta(t, 10.0, v.OffsetX, 1e-9)
	assert.InDelta(t, 60.0, v.OffsetY, 1e-9)

	p := Point{X: 1234, Y: 567}
	back := v.ToImage(v.ToScreen(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)

	s := v.RectToScreen(PixelRect{X: 100, Y: 100, Width: 500, Height: 200})
	assert.InDelta(t, 20.0, s.X, 1e-9)
	assert.InDelta(t, 70.0, s.Y, 1e-9)
	assert.InDelta(t, 50.0, s.Width, 1e-9)
	assert.InDelta(t, 20.0, s.Height, 1e-9)
}
