// Package priority raises the process's scheduling priority at startup
// (spec.md §5: capture and injection must not be starved by the rest of
// the system), the Linux analog of the high-priority/realtime process
// class the spec names. It calls setpriority(2) through
// golang.org/x/sys/unix on this process's own pid.
package priority

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Nice values range -20 (highest) to 19 (lowest); the default is 0.
const highPriorityNice = -10

// Raise lowers the current process's nice value, giving the capture and
// injection loop a better shot at the CPU under load. It is best-effort:
// an unprivileged process is typically capped below -10 by RLIMIT_NICE,
// so a permission error here is logged by the caller, not fatal.
func Raise() error {
	pid := os.Getpid()
	if err := unix.Setpriority(unix.PRIO_PROCESS, pid, highPriorityNice); err != nil {
		return fmt.Errorf("setpriority(%d, %d): %w", pid, highPriorityNice, err)
	}
	return nil
}

// Current returns the process's current nice value.
func Current() (int, error) {
	pid := os.Getpid()
	n, err := unix.Getpriority(unix.PRIO_PROCESS, pid)
	if err != nil {
		return 0, fmt.Errorf("getpriority(%d): %w", pid, err)
	}
	return n, nil
}
