package preflight

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"plparse/internal/disc"
	"plparse/internal/history"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckHistory opens the history database, applying migrations, and reads
// from it once.
func CheckHistory(ctx context.Context, path string) Result {
	const name = "History database"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := history.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	runs, err := store.List(checkCtx, 1)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: query: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (empty)", path)
	if len(runs) > 0 {
		detail = fmt.Sprintf("%s (last run %s)", path, runs[0].StartedAt.Local().Format(time.DateTime))
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDrive queries the tray state of the configured optical drive. An
// empty drive passes; only an unusable device fails.
func CheckDrive(device string) Result {
	const name = "Optical drive"

	device = strings.TrimSpace(device)
	if device == "" {
		return Result{Name: name, Passed: true, Skipped: true, Detail: "Not configured"}
	}
	status, err := disc.CheckDriveStatus(device)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", device, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", device, status)}
}

// CheckNetlink verifies that udev events can be received.
func CheckNetlink() Result {
	const name = "Disc watch"
	if err := disc.ProbeNetlink(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("netlink unavailable: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "udev netlink socket ok"}
}

// CheckBind reports whether the API address can be bound.
func CheckBind(addr string) Result {
	const name = "API bind"

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Result{Name: name, Detail: "no bind address configured"}
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; is the daemon already running?)", addr, err)}
	}
	_ = listener.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", addr)}
}
