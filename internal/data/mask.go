package data

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/craterline/sim/internal/terrain"
)

// LoadMask reads a terrain mask and builds the field from it. The format
// follows the file extension:
//
//	.txt  one text row per field row, top row first. '#' or '1' is solid,
//	      '.' or '0' is empty. A row containing commas is read as CSV values,
//	      non-zero meaning solid. Lines starting with ';' are comments.
//	.bmp  dark, opaque pixels are solid
//	.png  same as .bmp
//
// width and height of 0 take the size from the file; otherwise a file of a
// different size fails with terrain.ErrMaskSize.
func LoadMask(path string, width, height int) (*terrain.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask %s: %w", path, err)
	}
	defer f.Close()

	var (
		buf  []byte
		w, h int
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		buf, w, h, err = readTextMask(f)
	case ".bmp":
		var img image.Image
		if img, err = bmp.Decode(f); err == nil {
			buf, w, h = imageMask(img)
		}
	case ".png":
		var img image.Image
		if img, err = png.Decode(f); err == nil {
			buf, w, h = imageMask(img)
		}
	default:
		return nil, fmt.Errorf("mask %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read mask %s: %w", path, err)
	}

	if (width != 0 && width != w) || (height != 0 && height != h) {
		return nil, fmt.Errorf("mask %s: %w: file is %dx%d, level wants %dx%d",
			path, terrain.ErrMaskSize, w, h, width, height)
	}
	field, err := terrain.FromBytes(w, h, buf)
	if err != nil {
		return nil, fmt.Errorf("mask %s: %w", path, err)
	}
	return field, nil
}

// readTextMask returns a row-major buffer, top row first. Every row must
// have the width of the first one.
func readTextMask(r io.Reader) ([]byte, int, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		buf   []byte
		width = -1
		rows  int
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		row, err := parseMaskRow(line)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("row %d: %w", rows, err)
		}
		if width < 0 {
			width = len(row)
		}
		if len(row) != width {
			return nil, 0, 0, fmt.Errorf("row %d: %w: %d samples, want %d", rows, terrain.ErrMaskSize, len(row), width)
		}
		buf = append(buf, row...)
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, err
	}
	if rows == 0 {
		return nil, 0, 0, fmt.Errorf("%w: empty mask", terrain.ErrMaskSize)
	}
	return buf, width, rows, nil
}

func parseMaskRow(line string) ([]byte, error) {
	if strings.Contains(line, ",") {
		toks := strings.Split(line, ",")
		out := make([]byte, len(toks))
		for i, tok := range toks {
			v, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			if v != 0 {
				out[i] = 1
			}
		}
		return out, nil
	}
	out := make([]byte, len(line))
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '#', '1':
			out[i] = 1
		case '.', '0':
		default:
			return nil, fmt.Errorf("column %d: unexpected %q", i, line[i])
		}
	}
	return out, nil
}

// imageMask converts an image to a row-major solidity buffer. A pixel is
// solid when it is at least half opaque and darker than mid grey.
func imageMask(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			_, _, _, a := c.RGBA()
			g := color.Gray16Model.Convert(c).(color.Gray16)
			if a >= 0x8000 && g.Y < 0x8000 {
				buf[y*w+x] = 1
			}
		}
	}
	return buf, w, h
}

// WriteTextMask writes the field in the text mask format LoadMask reads:
// one line per row, top row first, '#' solid and '.' empty.
func WriteTextMask(w io.Writer, f *terrain.Field) error {
	buf := make([]byte, f.Width()*f.Height())
	f.CopySolidity(buf)

	bw := bufio.NewWriter(w)
	line := make([]byte, f.Width()+1)
	line[f.Width()] = '\n'
	for y := 0; y < f.Height(); y++ {
		for x, v := range buf[y*f.Width() : (y+1)*f.Width()] {
			line[x] = '.'
			if v != 0 {
				line[x] = '#'
			}
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
