package live

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/cwbudde/algo-spectro/spectro/frame"
)

// FrameType is the message type of frame messages.
const FrameType = "frame"

// ErrInvalidMessage is returned when a wire message cannot be turned into a
// frame.
var ErrInvalidMessage = errors.New("live: invalid frame message")

// Packet is a frame tagged with its origin.
type Packet struct {
	ID     int64
	Source string
	Frame  *frame.Frame
}

type wireFrame struct {
	Type   string    `cbor:"type"`
	ID     int64     `cbor:"id"`
	Source string    `cbor:"source"`
	Width  int       `cbor:"width"`
	Height int       `cbor:"height"`
	Pix    []float32 `cbor:"pix"`
}

// EncodeFrame encodes p as a CBOR frame message.
func EncodeFrame(p Packet) ([]byte, error) {
	if err := p.Frame.Validate(); err != nil {
		return nil, err
	}
	pix := make([]float32, len(p.Frame.Pix))
	for i, v := range p.Frame.Pix {
		pix[i] = float32(v)
	}
	return cbor.Marshal(wireFrame{
		Type:   FrameType,
		ID:     p.ID,
		Source: p.Source,
		Width:  p.Frame.Width,
		Height: p.Frame.Height,
		Pix:    pix,
	})
}

// DecodeFrame decodes a CBOR frame message.
func DecodeFrame(data []byte) (Packet, error) {
	var w wireFrame
	if err := cbor.Unmarshal(data, &w); err != nil {
		return Packet{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if w.Type != FrameType {
		return Packet{}, fmt.Errorf("%w: message type %q", ErrInvalidMessage, w.Type)
	}

	pix := make([]float64, len(w.Pix))
	for i, v := range w.Pix {
		pix[i] = float64(v)
	}
	f := &frame.Frame{Width: w.Width, Height: w.Height, Pix: pix}
	if err := f.ValidateFinite(); err != nil {
		return Packet{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return Packet{ID: w.ID, Source: w.Source, Frame: f}, nil
}
