//go:build unix

package ytdlp

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs cmd in its own process group and kills the whole
// group on cancellation, so ffmpeg and other children die with the extractor.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
