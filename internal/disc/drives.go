package disc

import (
	"context"
	"fmt"
	"sort"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"
)

// Drive is an optical drive found in sysfs.
type Drive struct {
	Device string
	KObj   string
	Status DriveStatus
	// StatusErr holds the ioctl error when the drive could not be queried.
	StatusErr error
}

// ListDrives walks sysfs for SCSI CD-ROM block devices and queries each
// drive's tray state.
func ListDrives(ctx context.Context) ([]Drive, error) {
	queue := make(chan crawler.Device)
	errs := make(chan error)
	quit := crawler.ExistingDevices(queue, errs, driveMatcher())

	var drives []Drive
	for {
		select {
		case <-ctx.Done():
			close(quit)
			return nil, ctx.Err()
		case err := <-errs:
			close(quit)
			return nil, fmt.Errorf("crawl sysfs: %w", err)
		case device, ok := <-queue:
			if !ok {
				sort.Slice(drives, func(i, j int) bool { return drives[i].Device < drives[j].Device })
				return drives, nil
			}
			drive := Drive{Device: deviceName(device.Env), KObj: device.KObj}
			if drive.Device == "" {
				continue
			}
			drive.Status, drive.StatusErr = CheckDriveStatus(drive.Device)
			drives = append(drives, drive)
		}
	}
}

func driveMatcher() netlink.Matcher {
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVNAME":   "^sr[0-9]+$",
			"DEVTYPE":   "disk",
		},
	})
	return rules
}
