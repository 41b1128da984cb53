package disc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Linux CDROM ioctl numbers from <linux/cdrom.h>.
const (
	ioctlCDROMDriveStatus = 0x5326
	ioctlCDROMDiscStatus  = 0x5327
)

// Values returned by CDROM_DISC_STATUS for a readable disc.
const (
	discStatusAudio = 100
	discStatusData1 = 101
	discStatusData2 = 102
	discStatusXA21  = 103
	discStatusXA22  = 104
	discStatusMixed = 105
)

// DriveStatus represents the result of a CDROM_DRIVE_STATUS ioctl call.
type DriveStatus int

const (
	DriveStatusNoInfo   DriveStatus = 0
	DriveStatusNoDisc   DriveStatus = 1
	DriveStatusTrayOpen DriveStatus = 2
	DriveStatusNotReady DriveStatus = 3
	DriveStatusDiscOK   DriveStatus = 4
)

// String returns a human-readable label for the drive status.
func (s DriveStatus) String() string {
	switch s {
	case DriveStatusNoInfo:
		return "no_info"
	case DriveStatusNoDisc:
		return "no_disc"
	case DriveStatusTrayOpen:
		return "tray_open"
	case DriveStatusNotReady:
		return "not_ready"
	case DriveStatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

func ioctlDevice(devicePath string, request uint) (int, error) {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return 0, fmt.Errorf("empty device path")
	}
	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", devicePath, err)
	}
	defer unix.Close(fd) //nolint:errcheck

	ret, err := unix.IoctlRetInt(fd, request)
	if err != nil {
		return 0, fmt.Errorf("ioctl %#x on %s: %w", request, devicePath, err)
	}
	return ret, nil
}

// CheckDriveStatus queries the drive state using the CDROM_DRIVE_STATUS ioctl.
func CheckDriveStatus(devicePath string) (DriveStatus, error) {
	ret, err := ioctlDevice(devicePath, ioctlCDROMDriveStatus)
	if err != nil {
		return DriveStatusNoInfo, err
	}
	return DriveStatus(ret), nil
}

// discStatus returns the raw CDROM_DISC_STATUS value.
func discStatus(devicePath string) (int, error) {
	return ioctlDevice(devicePath, ioctlCDROMDiscStatus)
}

// WaitForReady polls the drive once a second until it reports a disc, the
// poll budget runs out or ctx is cancelled. Freshly inserted media needs a few
// seconds to spin up before its type can be read.
func WaitForReady(ctx context.Context, devicePath string, maxPolls int) (DriveStatus, error) {
	const pollInterval = time.Second
	if maxPolls <= 0 {
		maxPolls = 30
	}

	var lastStatus DriveStatus
	for i := 0; i < maxPolls; i++ {
		status, err := CheckDriveStatus(devicePath)
		if err != nil {
			return status, err
		}
		lastStatus = status
		if status == DriveStatusDiscOK {
			return status, nil
		}
		if status == DriveStatusNoDisc || status == DriveStatusTrayOpen {
			return status, fmt.Errorf("drive %s has no disc (%s)", devicePath, status)
		}

		select {
		case <-ctx.Done():
			return lastStatus, ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return lastStatus, fmt.Errorf("drive %s not ready after %d polls (last status: %s)", devicePath, maxPolls, lastStatus)
}
