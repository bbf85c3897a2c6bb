package line

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectro/internal/testutil"
	"github.com/cwbudde/algo-spectro/spectro/frame"
)

func bandFrame(t *testing.T, width, height int, row, angle float64) *frame.Frame {
	t.Helper()
	lum := testutil.BandGrid(width, height, row, angle, 2.5, 0.05, 0.9)
	testutil.AddInto(lum, testutil.UniformNoise(7, 0.01, len(lum)))
	f, err := frame.FromGray(width, height, lum)
	require.NoError(t, err)
	return f
}

func TestNewDetectorValidation(t *testing.T) {
	_, err := NewDetector()
	require.NoError(t, err)

	bad := []Option{
		WithThickness(0),
		WithThickness(21),
		WithMinContrast(1),
		WithMaxBandFraction(0),
		WithMaxTilt(60),
		WithAngleStep(0),
		WithMinCoverage(1.5),
	}
	for _, opt := range bad {
		_, err := NewDetector(opt)
		require.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestDetectHorizontalBand(t *testing.T) {
	d, err := NewDetector(WithThickness(7))
	require.NoError(t, err)

	f := bandFrame(t, 200, 100, 40.3, 0)
	det, err := d.Detect(context.Background(), f)
	require.NoError(t, err)

	require.Equal(t, MethodBrightness, det.Method)
	require.InDelta(t, 40.3, det.Offset, 1)
	require.InDelta(t, 0, det.Geometry.AngleDeg(), 1)
	require.Equal(t, 7, det.Geometry.Thickness)
	require.Greater(t, det.Confidence, 1.5)

	// Spans the full usable width.
	require.Equal(t, 0.0, det.Geometry.Start.X)
	require.Equal(t, 199.0, det.Geometry.End.X)
	require.NoError(t, det.Geometry.Validate(f.Width, f.Height))
}

func TestDetectTiltedBandFallsBackToHough(t *testing.T) {
	// A contrast threshold no row profile can reach forces the fallback.
	d, err := NewDetector(WithMinContrast(1000))
	require.NoError(t, err)

	f := bandFrame(t, 320, 120, 60, 5)
	det, err := d.Detect(context.Background(), f)
	require.NoError(t, err)

	require.Equal(t, MethodHough, det.Method)
	require.InDelta(t, 5, det.AngleDeg, 1)
	require.InDelta(t, 5, det.Geometry.AngleDeg(), 1)
	require.InDelta(t, 60, det.Offset, 1.5)
	require.GreaterOrEqual(t, det.Confidence, 0.3)
	require.NoError(t, det.Geometry.Validate(f.Width, f.Height))
}

func TestDetectUniformFrameFails(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	lum := testutil.Constant(0.4, 50*40)
	f, err := frame.FromGray(50, 40, lum)
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), f)
	require.ErrorIs(t, err, ErrNoLineDetected)
}

func TestDetectScatteredNoiseFails(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	lum := testutil.UniformNoise(3, 0.5, 120*80)
	for i := range lum {
		lum[i] = math.Abs(lum[i]) + 0.1
	}
	f, err := frame.FromGray(120, 80, lum)
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), f)
	require.ErrorIs(t, err, ErrNoLineDetected)
}

func TestDetectCancelled(t *testing.T) {
	d, err := NewDetector(WithMinContrast(1000))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Detect(ctx, bandFrame(t, 64, 32, 16, 3))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDetectInvalidFrame(t *testing.T) {
	d, err := NewDetector()
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), &frame.Frame{Width: 2, Height: 2})
	require.ErrorIs(t, err, frame.ErrInvalidFrame)
}

func TestClipLineSteep(t *testing.T) {
	g, cols, ok := clipLine(30, 0, 100, 20, 3)
	require.True(t, ok)
	require.Greater(t, cols, 0)
	require.Less(t, cols, 100)
	require.NoError(t, g.Validate(100, 20))
	require.InDelta(t, 30, g.AngleDeg(), 1e-9)
}
