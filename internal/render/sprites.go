package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"image"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

//go:embed sprites
var spriteFS embed.FS

// manifest is the decoded form of a <name>.sprite.json file (SPEC_FULL
// §3.1).
type manifest struct {
	Rows        int `json:"rows"`
	Cols        int `json:"cols"`
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`
	FrameCount  int `json:"frame_count"`
}

// Sheet is one compiled-in animation: a grid of frames packed into a
// single 1-bit bitmap, addressed row-major.
type Sheet struct {
	Name   string
	manifest
	bits []byte // packed 8px/byte, MSB first, ceil(cols*frameWidth/8) bytes per pixel-row
}

func (s *Sheet) rowBytes() int {
	return (s.Cols*s.FrameWidth + 7) / 8
}

func (s *Sheet) pixelAt(x, y int) bool {
	stride := s.rowBytes()
	byteIdx := y*stride + x/8
	if byteIdx < 0 || byteIdx >= len(s.bits) {
		return false
	}
	bit := 7 - uint(x%8)
	return s.bits[byteIdx]&(1<<bit) != 0
}

// Frames is the number of frames the state machine should cycle
// through; it may be less than rows*cols (trailing grid cells unused).
func (s *Sheet) Frames() int {
	if s.FrameCount > 0 && s.FrameCount <= s.Rows*s.Cols {
		return s.FrameCount
	}
	return s.Rows * s.Cols
}

// FrameImage materializes frame i as a standalone *image.Gray, matching
// the bounding-rectangle blit the original firmware performs per frame
// (original_source/client: bmp.pixel(point) over a Rectangle per cell).
func (s *Sheet) FrameImage(i int) *image.Gray {
	row := i / s.Cols
	col := i % s.Cols
	ox := col * s.FrameWidth
	oy := row * s.FrameHeight

	img := image.NewGray(image.Rect(0, 0, s.FrameWidth, s.FrameHeight))
	for y := 0; y < s.FrameHeight; y++ {
		for x := 0; x < s.FrameWidth; x++ {
			if s.pixelAt(ox+x, oy+y) {
				img.SetGray(x, y, pixelOn)
			}
		}
	}
	return img
}

// LoadSheets discovers every compiled-in animation by globbing the
// embedded sprites directory for manifests, pairing each with its
// bitmap. Using doublestar.Glob over the embedded FS rather than a hand-maintained registry
// means adding an animation is purely a matter of dropping two files
// under internal/render/sprites/<name>/ (SPEC_FULL §3.1, §2.2).
func LoadSheets() (map[string]*Sheet, error) {
	matches, err := doublestar.Glob(spriteFS, "sprites/**/*.sprite.json")
	if err != nil {
		return nil, fmt.Errorf("glob sprite manifests: %w", err)
	}

	sheets := make(map[string]*Sheet, len(matches))
	for _, m := range matches {
		sheet, err := loadSheet(m)
		if err != nil {
			return nil, err
		}
		sheets[sheet.Name] = sheet
	}
	return sheets, nil
}

func loadSheet(manifestPath string) (*Sheet, error) {
	data, err := fs.ReadFile(spriteFS, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifestPath, err)
	}

	var man manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("decode %s: %w", manifestPath, err)
	}

	binPath := strings.TrimSuffix(manifestPath, ".sprite.json") + ".bin"
	bits, err := fs.ReadFile(spriteFS, binPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", binPath, err)
	}

	name := path.Base(strings.TrimSuffix(manifestPath, ".sprite.json"))
	return &Sheet{Name: name, manifest: man, bits: bits}, nil
}
