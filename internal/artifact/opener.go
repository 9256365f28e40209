package artifact

import (
	"os/exec"
	"runtime"
)

// Opener launches the platform file handler for finished artifacts.
// Opening is best-effort: failures are reported, never escalated.
type Opener struct {
	enabled bool
}

// NewOpener returns an opener. When enabled is false, Open is a no-op
// reporting success was not attempted.
func NewOpener(enabled bool) *Opener {
	return &Opener{enabled: enabled}
}

// Open hands the artifact to the desktop. Returns true when the
// handler was launched.
func (o *Opener) Open(path string) bool {
	if !o.enabled {
		return false
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return false
	}
	// Reap the handler once it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return true
}
