package disc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ISO 9660 and High Sierra volume descriptor offsets.
const (
	isoRawSectorID   = 37633
	isoStandardID    = 32769
	highSierraID     = 32776
	isoVolumeLabel   = 32808
	isoLabelLength   = 128
	vcdSizeThreshold = 700 * 1024 * 1024
)

// ErrNotISO reports a file without an ISO 9660 or High Sierra descriptor.
var ErrNotISO = errors.New("not an iso 9660 image")

// Image describes an ISO image.
type Image struct {
	Label string
	Size  int64
	Media MediaType
}

// ReadImage identifies an ISO image or a block device holding one. Images
// smaller than a CD are treated as VCDs, anything larger as a DVD.
func ReadImage(path string) (Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if !hasDescriptor(file) {
		return Image{}, fmt.Errorf("%s: %w", path, ErrNotISO)
	}

	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return Image{}, fmt.Errorf("size %s: %w", path, err)
	}

	img := Image{Label: readLabel(file), Size: size, Media: MediaDVD}
	if size < vcdSizeThreshold {
		img.Media = MediaVCD
	}
	return img, nil
}

func hasDescriptor(r io.ReaderAt) bool {
	checks := []struct {
		offset int64
		magic  string
	}{
		{isoRawSectorID, "CD001"},
		{isoStandardID, "CD001"},
		{highSierraID, "CDROM"},
	}
	for _, check := range checks {
		buf := make([]byte, len(check.magic))
		if _, err := r.ReadAt(buf, check.offset); err != nil {
			continue
		}
		if string(buf) == check.magic {
			return true
		}
	}
	return false
}

// readLabel returns the trimmed volume identifier, or "" if it is not valid
// text.
func readLabel(r io.ReaderAt) string {
	buf := make([]byte, isoLabelLength)
	n, err := r.ReadAt(buf, isoVolumeLabel)
	if err != nil && n == 0 {
		return ""
	}
	label := strings.TrimRight(string(buf[:n]), " \x00")
	label = strings.TrimSpace(label)
	if !utf8.ValidString(label) {
		return ""
	}
	return label
}
