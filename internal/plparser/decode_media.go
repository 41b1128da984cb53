package plparser

import (
	"context"
	"errors"

	"plparse/internal/disc"
	"plparse/internal/logging"
	"plparse/internal/uri"
)

// decodeImage turns a local ISO image into a disc MRL titled with its
// volume label.
func decodeImage(ctx context.Context, s *Session, req Request) (Result, error) {
	path, ok := uri.ToPath(req.URI)
	if !ok {
		return Ignored, nil
	}
	media, err := s.parser.disc.DetectImage(ctx, path)
	switch {
	case errors.Is(err, disc.ErrNotISO):
		return Unhandled, nil
	case err != nil:
		return Error, err
	}
	s.emit(Entry{URI: media.MRL(), Title: media.Title()})
	return Success, nil
}

// decodeCue treats a cue sheet as the VCD it describes.
func decodeCue(_ context.Context, s *Session, req Request) (Result, error) {
	path, ok := uri.ToPath(req.URI)
	if !ok {
		return Ignored, nil
	}
	s.emit(Entry{URI: disc.MRL(disc.MediaVCD, path), Title: uri.DisplayName(req.URI)})
	return Success, nil
}

// decodeBlockDevice identifies the disc in an optical drive.
func decodeBlockDevice(ctx context.Context, s *Session, req Request) (Result, error) {
	path, ok := uri.ToPath(req.URI)
	if !ok {
		return Ignored, nil
	}
	media, err := s.parser.disc.DetectDevice(ctx, path)
	if err != nil {
		return Error, err
	}
	mrl := media.MRL()
	if mrl == "" {
		s.logger.Debug("data disc", logging.Device(path), logging.String("label", media.Label))
		return Unhandled, nil
	}
	s.emit(Entry{URI: mrl, Title: media.Title()})
	return Success, nil
}
