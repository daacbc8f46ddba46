package platform

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// Platform kinds accepted by New.
const (
	KindAuto  = "auto"
	KindLinux = "linux"
	KindNull  = "null"
)

// Config selects and configures a Platform.
type Config struct {
	Kind           string
	Interface      string
	HotspotProfile string
	UseSudo        bool
	CommandTimeout time.Duration
}

// New builds the Platform named by cfg.Kind. KindAuto picks Linux when
// nmcli is installed and Null otherwise.
func New(cfg Config, logger *slog.Logger) (Platform, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kind := cfg.Kind
	if kind == "" || kind == KindAuto {
		kind = Detect(exec.LookPath)
	}

	switch kind {
	case KindLinux:
		run := NewExecRunner(cfg.UseSudo, cfg.CommandTimeout, logger)
		return NewLinux(LinuxConfig{
			Interface:      cfg.Interface,
			HotspotProfile: cfg.HotspotProfile,
		}, run, logger), nil
	case KindNull:
		logger.Warn("using null platform, Wi-Fi actions are no-ops")
		return Null{}, nil
	default:
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown platform kind %q", cfg.Kind))
	}
}

// Detect returns KindLinux when running on Linux with nmcli on PATH.
func Detect(lookPath func(string) (string, error)) string {
	if runtime.GOOS != "linux" {
		return KindNull
	}
	if _, err := lookPath("nmcli"); err != nil {
		return KindNull
	}
	return KindLinux
}
