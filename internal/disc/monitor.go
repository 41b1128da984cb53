package disc

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"plparse/internal/logging"
)

// InsertHandler is called for every media insertion on a watched drive.
type InsertHandler func(ctx context.Context, device string) error

// Monitor listens for udev netlink events and reports disc insertions.
type Monitor struct {
	logger  *slog.Logger
	handler InsertHandler
	device  string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor returns a monitor for device. An empty device watches every
// optical drive. A nil handler makes the monitor log events only.
func NewMonitor(device string, logger *slog.Logger, handler InsertHandler) *Monitor {
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "disc-monitor"),
		handler: handler,
		device:  strings.TrimSpace(device),
	}
}

// Start begins listening for udev netlink events. A socket that cannot be
// opened is logged and leaves the monitor stopped.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket", "netlink_connect_failed",
			logging.Error(err),
			logging.Hint("ensure the process may open NETLINK_KOBJECT_UEVENT sockets"),
			logging.Impact("inserted discs will not be resolved automatically"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("disc monitor started",
		logging.EventType("disc_monitor_started"),
		logging.Device(m.deviceLabel()),
	)
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("disc monitor stopped", logging.EventType("disc_monitor_stopped"))
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) deviceLabel() string {
	if m.device == "" {
		return "any"
	}
	return m.device
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, insertionMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "netlink_monitor_error",
				logging.Error(err),
				logging.Hint("check kernel netlink subsystem"),
				logging.Impact("disc insertions may be missed"),
			)
		}
	}
}

// insertionMatcher matches SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1 for
// add and change actions.
func insertionMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := deviceName(uevent.Env)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if m.device != "" && devname != m.device {
		m.logger.Debug("ignoring event for unwatched device",
			logging.Device(devname),
			logging.String("watched_device", m.device),
		)
		return
	}

	m.logger.Info("disc media detected",
		logging.EventType("disc_inserted"),
		logging.Device(devname),
		logging.String("action", string(uevent.Action)),
	)
	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, devname); err != nil {
		logging.WarnWithContext(m.logger, "disc insertion handler failed", "disc_handler_failed",
			logging.Error(err),
			logging.Device(devname),
			logging.Hint("run 'plparse resolve' on the device for details"),
			logging.Impact("disc contents were not resolved"),
		)
	}
}

// deviceName gets the device node from uevent or sysfs environment keys.
func deviceName(env map[string]string) string {
	if devname := env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			return "/dev/" + devname
		}
		return devname
	}
	devpath := env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(strings.TrimSuffix(devpath, "/"), "/")
	return "/dev/" + parts[len(parts)-1]
}

// ProbeNetlink opens and closes a udev netlink socket.
func ProbeNetlink() error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return err
	}
	return conn.Close()
}
