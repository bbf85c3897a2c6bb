package calibration

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ProfileVersion is the current persisted profile version.
const ProfileVersion = 1

// Profile is the persisted form of a Model. The same field names are used
// for JSON and CBOR.
type Profile struct {
	Version      int           `json:"version"`
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Order        int           `json:"order"`
	Coefficients []float64     `json:"coefficients"`
	Domain       [2]float64    `json:"domain"`
	Points       []PointRecord `json:"points"`
	Metrics      MetricsRecord `json:"metrics"`
	Warnings     []string      `json:"warnings,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PointRecord is the persisted form of a Point.
type PointRecord struct {
	Pixel      float64 `json:"pixel"`
	Wavelength float64 `json:"wavelength"`
	Label      string  `json:"label,omitempty"`
}

// MetricsRecord is the persisted form of Metrics.
type MetricsRecord struct {
	R2        float64   `json:"r2"`
	RMSE      float64   `json:"rmse"`
	MaxError  float64   `json:"max_error"`
	Residuals []float64 `json:"residuals,omitempty"`
}

// Profile returns the persisted form of m with the given name and
// description.
func (m *Model) Profile(name, description string) Profile {
	pts := make([]PointRecord, len(m.points))
	for i, p := range m.points {
		pts[i] = PointRecord{Pixel: p.Pixel, Wavelength: p.Wavelength, Label: p.Label}
	}
	return Profile{
		Version:      ProfileVersion,
		Name:         name,
		Description:  description,
		Order:        m.order,
		Coefficients: slices.Clone(m.coeffs),
		Domain:       m.domain,
		Points:       pts,
		Metrics: MetricsRecord{
			R2:        m.metrics.R2,
			RMSE:      m.metrics.RMSE,
			MaxError:  m.metrics.MaxError,
			Residuals: slices.Clone(m.metrics.Residuals),
		},
		Warnings:  slices.Clone(m.warnings),
		CreatedAt: m.createdAt,
	}
}

// Model validates the profile and rebuilds the model it describes.
func (p Profile) Model() (*Model, error) {
	if p.Version != ProfileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrProfileLoad, p.Version)
	}
	if p.Order < MinOrder || p.Order > MaxOrder {
		return nil, fmt.Errorf("%w: invalid order %d", ErrProfileLoad, p.Order)
	}
	if len(p.Coefficients) != p.Order+1 {
		return nil, fmt.Errorf("%w: %d coefficients for order %d", ErrProfileLoad, len(p.Coefficients), p.Order)
	}
	if !finite(p.Coefficients...) || !finite(p.Domain[0], p.Domain[1]) {
		return nil, fmt.Errorf("%w: non-finite coefficients or domain", ErrProfileLoad)
	}
	if !(p.Domain[0] < p.Domain[1]) {
		return nil, fmt.Errorf("%w: empty domain [%g, %g]", ErrProfileLoad, p.Domain[0], p.Domain[1])
	}
	if !finite(p.Metrics.R2, p.Metrics.RMSE, p.Metrics.MaxError) || !finite(p.Metrics.Residuals...) {
		return nil, fmt.Errorf("%w: non-finite metrics", ErrProfileLoad)
	}

	points := make([]Point, len(p.Points))
	for i, r := range p.Points {
		if !finite(r.Pixel, r.Wavelength) {
			return nil, fmt.Errorf("%w: non-finite point %d", ErrProfileLoad, i)
		}
		points[i] = Point{Pixel: r.Pixel, Wavelength: r.Wavelength, Label: r.Label}
	}

	return &Model{
		order:  p.Order,
		coeffs: slices.Clone(p.Coefficients),
		domain: p.Domain,
		metrics: Metrics{
			R2:        p.Metrics.R2,
			RMSE:      p.Metrics.RMSE,
			MaxError:  p.Metrics.MaxError,
			Residuals: slices.Clone(p.Metrics.Residuals),
		},
		points:    points,
		warnings:  slices.Clone(p.Warnings),
		createdAt: p.CreatedAt,
	}, nil
}

// Serialize encodes m as an indented JSON profile.
func (m *Model) Serialize() ([]byte, error) {
	return json.MarshalIndent(m.Profile("", ""), "", "  ")
}

// Deserialize decodes a JSON profile. Errors wrap ErrProfileLoad.
func Deserialize(data []byte) (*Model, error) {
	p, err := DecodeProfile(data)
	if err != nil {
		return nil, err
	}
	return p.Model()
}

// DecodeProfile decodes a JSON profile without validating it.
func DecodeProfile(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrProfileLoad, err)
	}
	return p, nil
}

// cborEnc keeps nanosecond creation times, matching the JSON form.
var cborEnc = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeCBOR encodes m as a CBOR profile.
func EncodeCBOR(m *Model) ([]byte, error) {
	return cborEnc.Marshal(m.Profile("", ""))
}

// DecodeCBOR decodes a CBOR profile. Errors wrap ErrProfileLoad.
func DecodeCBOR(data []byte) (*Model, error) {
	var p Profile
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileLoad, err)
	}
	return p.Model()
}
