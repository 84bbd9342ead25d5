// maskconv converts a BMP or PNG terrain mask into the text mask format the
// level loader reads, and prints the level terrain stanza for it.
//
// Produces:
//   - data/masks/<name>.txt: one text row per field row, '#' solid
//
// Usage:
//
//	go run ./cmd/maskconv art/ridge.png [data/masks/ridge.txt]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/craterline/sim/internal/data"
)

type terrainStanza struct {
	Terrain data.TerrainDef `yaml:"terrain"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: maskconv <mask.png|mask.bmp> [out.txt]")
		os.Exit(2)
	}
	inputPath := os.Args[1]
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join("data", "masks", base+".txt")
	if len(os.Args) >= 3 {
		outputPath = os.Args[2]
	}

	// ---- Read & decode the image ----
	field, err := data.LoadMask(inputPath, 0, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	// ---- Write the text mask ----
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "; converted from %s\n", filepath.Base(inputPath))
	if err := data.WriteTextMask(out, field); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %dx%d mask (%d solid samples) to %s\n",
		field.Width(), field.Height(), field.SolidCount(), outputPath)

	// ---- Print the level stanza ----
	stanza := terrainStanza{Terrain: data.TerrainDef{
		Mask:   filepath.ToSlash(filepath.Join("..", "masks", filepath.Base(outputPath))),
		Width:  field.Width(),
		Height: field.Height(),
	}}
	yamlData, err := yaml.Marshal(&stanza)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n%s", yamlData)
}
