package disc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

const mountsFixture = `sysfs /sys sysfs rw 0 0
/dev/sda1 / ext4 rw 0 0
/dev/sr0 /media/user/MY\040DISC iso9660 ro 0 0
`

func TestFindMount(t *testing.T) {
	got, err := findMount(strings.NewReader(mountsFixture), "/dev/sr0")
	if err != nil {
		t.Fatalf("findMount returned error: %v", err)
	}
	if got != "/media/user/MY DISC" {
		t.Fatalf("unexpected mount point: %q", got)
	}
	if _, err := findMount(strings.NewReader(mountsFixture), "/dev/sr1"); !errors.Is(err, errMountNotFound) {
		t.Fatalf("expected errMountNotFound, got %v", err)
	}
}

func TestMountedDeviceUsesMountsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mounts")
	if err := os.WriteFile(path, []byte(mountsFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	original := mountsFile
	mountsFile = path
	defer func() { mountsFile = original }()

	device, err := MountedDevice("/media/user/MY DISC/")
	if err != nil {
		t.Fatalf("MountedDevice returned error: %v", err)
	}
	if device != "/dev/sr0" {
		t.Fatalf("unexpected device: %q", device)
	}
	mount, err := MountPoint("/dev/sr9")
	if err != nil || mount != "" {
		t.Fatalf("expected unmounted device, got %q err=%v", mount, err)
	}
}

func TestInsertionMatcher(t *testing.T) {
	matcher := insertionMatcher()
	valid := netlink.UEvent{
		Action: netlink.CHANGE,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	}
	if !matcher.Evaluate(valid) {
		t.Error("expected matcher to accept media change event")
	}
	remove := valid
	remove.Action = netlink.REMOVE
	if matcher.Evaluate(remove) {
		t.Error("expected matcher to reject REMOVE action")
	}
	noMedia := netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "block", "ID_CDROM": "1"},
	}
	if matcher.Evaluate(noMedia) {
		t.Error("expected matcher to reject event without ID_CDROM_MEDIA")
	}
}

func TestMonitorHandleEvent(t *testing.T) {
	var got []string
	handler := func(_ context.Context, device string) error {
		got = append(got, device)
		return nil
	}
	m := NewMonitor("/dev/sr0", nil, handler)

	m.handleEvent(context.Background(), netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{}})
	m.handleEvent(context.Background(), netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"DEVNAME": "/dev/sr1"}})
	m.handleEvent(context.Background(), netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"DEVPATH": "/devices/pci0000:00/block/sr0"}})

	if len(got) != 1 || got[0] != "/dev/sr0" {
		t.Fatalf("unexpected handler calls: %v", got)
	}
}

func TestMonitorNilSafety(t *testing.T) {
	var m *Monitor
	m.Stop()
	if m.Running() {
		t.Fatal("nil monitor should not report running")
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil monitor returned error: %v", err)
	}
	unstarted := NewMonitor("", nil, nil)
	unstarted.Stop()
	unstarted.Stop()
}

func TestDeviceName(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{"DEVNAME": "sr0"}, "/dev/sr0"},
		{map[string]string{"DEVNAME": "/dev/sr1"}, "/dev/sr1"},
		{map[string]string{"DEVPATH": "/devices/x/block/sr2"}, "/dev/sr2"},
		{map[string]string{}, ""},
	}
	for _, tt := range tests {
		if got := deviceName(tt.env); got != tt.want {
			t.Errorf("deviceName(%v) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
