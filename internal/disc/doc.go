// Package disc recognises optical media so the resolver can hand players a
// disc MRL instead of a pile of VOB or DAT files.
//
// It detects VCD, DVD and Blu-ray directory layouts, reads ISO 9660 volume
// descriptors from images and devices, queries drives through the Linux CDROM
// ioctls, and watches udev for media insertion. Device quirks stay here so the
// playlist decoders only see a MediaType and a URI.
package disc
