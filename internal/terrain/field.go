package terrain

import (
	"errors"
	"fmt"
)

// Empty is the HeightAt sentinel for a column with no solid material.
const Empty = -1

var (
	// ErrMaskSize reports an imported mask whose length does not match the
	// declared width × height.
	ErrMaskSize = errors.New("terrain: mask size mismatch")
	// ErrDimensions reports a non-positive width or height.
	ErrDimensions = errors.New("terrain: invalid dimensions")
)

const (
	sampleEmpty byte = 0
	sampleSolid byte = 1
)

// Sample addresses one cell of the field. Row 0 is the bottom of the field.
type Sample struct {
	Col int
	Row int
}

// Field is the destructible ground: width columns of height samples each.
// Samples are stored column-major (samples[col*height+row]) so a column scan
// is a contiguous walk. Only Carve mutates the field, and only towards empty.
// Accessed only from the simulation goroutine; read-only scans may run in
// parallel while no writer is active.
type Field struct {
	width   int
	height  int
	samples []byte
	top     []int // highest solid row per column, or Empty
	solid   int
	diff    []Sample
}

// New returns a field of the given size with every sample empty.
func New(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	f := &Field{
		width:   width,
		height:  height,
		samples: make([]byte, width*height),
		top:     make([]int, width),
	}
	for c := range f.top {
		f.top[c] = Empty
	}
	return f, nil
}

// FromBytes builds a field from a flat row-major buffer, one byte per sample,
// top row first (the layout of an imported bitmap). Any non-zero byte is solid.
func FromBytes(width, height int, buf []byte) (*Field, error) {
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(buf) != width*height {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMaskSize, len(buf), width*height)
	}
	for y := 0; y < height; y++ {
		row := height - 1 - y
		for x := 0; x < width; x++ {
			if buf[y*width+x] != 0 {
				f.samples[x*height+row] = sampleSolid
			}
		}
	}
	f.rebuild()
	return f, nil
}

// FromBits builds a field from a packed row-major bitmap, top row first, LSB
// first within each byte. Rows are not padded.
func FromBits(width, height int, bits []byte) (*Field, error) {
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}
	want := (width*height + 7) / 8
	if len(bits) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMaskSize, len(bits), want)
	}
	for i := 0; i < width*height; i++ {
		if bits[i/8]&(1<<(i%8)) == 0 {
			continue
		}
		x, y := i%width, i/width
		f.samples[x*f.height+(height-1-y)] = sampleSolid
	}
	f.rebuild()
	return f, nil
}

func (f *Field) rebuild() {
	f.solid = 0
	for c := 0; c < f.width; c++ {
		f.top[c] = Empty
		base := c * f.height
		for r := 0; r < f.height; r++ {
			if f.samples[base+r] == sampleSolid {
				f.solid++
				f.top[c] = r
			}
		}
	}
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

// SolidCount returns the number of solid samples in the field.
func (f *Field) SolidCount() int { return f.solid }

// InBounds reports whether (col,row) addresses a sample.
func (f *Field) InBounds(col, row int) bool {
	return col >= 0 && col < f.width && row >= 0 && row < f.height
}

// IsSolid reports whether the sample is solid. Out-of-range coordinates are
// open air.
func (f *Field) IsSolid(col, row int) bool {
	if !f.InBounds(col, row) {
		return false
	}
	return f.samples[col*f.height+row] == sampleSolid
}

// HeightAt returns the highest solid row in the column, or Empty.
func (f *Field) HeightAt(col int) int {
	if col < 0 || col >= f.width {
		return Empty
	}
	return f.top[col]
}

// CopySolidity writes the field into dst as a row-major buffer, top row
// first, one byte per sample (1 = solid), and returns the bytes written.
// dst shorter than width × height receives a prefix.
func (f *Field) CopySolidity(dst []byte) int {
	n := 0
	for y := 0; y < f.height && n < len(dst); y++ {
		row := f.height - 1 - y
		for x := 0; x < f.width && n < len(dst); x++ {
			dst[n] = f.samples[x*f.height+row]
			n++
		}
	}
	return n
}

// TakeDiff returns the samples cleared since the previous call, in clearing
// order, and resets the diff.
func (f *Field) TakeDiff() []Sample {
	if len(f.diff) == 0 {
		return nil
	}
	out := f.diff
	f.diff = make([]Sample, 0, len(out))
	return out
}
