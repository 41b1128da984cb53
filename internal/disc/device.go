package disc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"plparse/internal/logging"
)

// ErrNoMedia reports an empty or unreadable drive.
var ErrNoMedia = errors.New("no readable media")

// Media is the result of probing a drive, image or directory.
type Media struct {
	Type MediaType
	// Location is the device or directory the MRL should point at.
	Location string
	Label    string
}

// MRL returns the player location for m, or "" for data media.
func (m Media) MRL() string {
	return MRL(m.Type, m.Location)
}

// Title returns a display title derived from the label, falling back to the
// location's base name.
func (m Media) Title() string {
	if title := DisplayLabel(m.Label); title != "" {
		return title
	}
	if m.Location == "" {
		return ""
	}
	return filepath.Base(m.Location)
}

// Detector answers "what optical media is this?" for the resolver.
type Detector struct {
	logger       *slog.Logger
	labelTimeout time.Duration
}

// NewDetector returns a detector logging under the "disc" component.
func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{
		logger:       logging.NewComponentLogger(logger, "disc"),
		labelTimeout: 5 * time.Second,
	}
}

// DetectImage reads an ISO image.
func (d *Detector) DetectImage(_ context.Context, path string) (Media, error) {
	img, err := ReadImage(path)
	if err != nil {
		return Media{}, err
	}
	return Media{Type: img.Media, Location: path, Label: img.Label}, nil
}

// DetectDevice identifies the disc in a block device. Audio discs map to
// cdda, mounted data discs are checked for a video layout, and unmounted
// discs fall back to reading the ISO descriptor from the raw device.
func (d *Detector) DetectDevice(ctx context.Context, device string) (Media, error) {
	status, err := discStatus(device)
	if err != nil {
		return Media{}, err
	}

	media := Media{Type: MediaData, Location: device}
	switch status {
	case discStatusAudio, discStatusMixed:
		media.Type = MediaCDDA
		return media, nil
	case discStatusData1, discStatusData2, discStatusXA21, discStatusXA22:
	default:
		return Media{}, fmt.Errorf("%s: %w (status %d)", device, ErrNoMedia, status)
	}

	if label, err := ReadLabel(ctx, device, d.labelTimeout); err == nil {
		media.Label = label
	}

	mount, err := MountPoint(device)
	if err != nil {
		d.logger.Debug("mount lookup failed", logging.Device(device), logging.Error(err))
	}
	if mount != "" {
		layout, err := DetectDir(mount)
		if err != nil {
			return Media{}, err
		}
		media.Type = layout
		d.logger.Debug("mounted disc probed",
			logging.Device(device),
			logging.String("mount", mount),
			logging.String("media", layout.String()),
		)
		return media, nil
	}

	img, err := ReadImage(device)
	switch {
	case errors.Is(err, ErrNotISO):
		return media, nil
	case err != nil:
		return Media{}, err
	}
	if media.Label == "" {
		media.Label = img.Label
	}
	if status == discStatusXA22 {
		media.Type = MediaVCD
	}
	return media, nil
}
