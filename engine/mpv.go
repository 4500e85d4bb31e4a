package engine

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vidstack/elements/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Engine interface using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   Listener
	events     *eventListener
	loaded     bool
	mu         sync.Mutex // Protects socket writes
}

// NewMPV creates a new MPV engine instance (does not start playback).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// OnEvent registers the controller-facing event listener.
func (m *MPV) OnEvent(fn Listener) {
	m.listener = fn
}

// emit forwards an event to the registered listener, if any.
func (m *MPV) emit(ev Event) {
	if m.listener != nil {
		m.listener(ev)
	}
}

// Load starts playback of the given source. If mpv is already running,
// it loads the new file into the existing instance via IPC.
func (m *MPV) Load(src Source) error {
	// Sanitize the URL to prevent flag injection from untrusted sources
	safeURL, err := sanitizeMediaTarget(src.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(src.Title)
	if safeTitle == "" {
		safeTitle = safeURL
	}

	if m.loaded {
		// Replace the active source in the running instance. The title was
		// fixed at spawn, so it has to follow the source explicitly.
		if _, err := m.sendCommand([]interface{}{"loadfile", safeURL, "replace"}); err != nil {
			return fmt.Errorf("load source: %w", err)
		}
		if err := m.setProperty("force-media-title", safeTitle); err != nil {
			log.Warnf("update window title: %v", err)
		}
		return nil
	}

	// Construct header string if present
	var headerString string
	if len(src.Headers) > 0 {
		var hBuilder strings.Builder
		for k, v := range src.Headers {
			if hBuilder.Len() > 0 {
				hBuilder.WriteString(",")
			}
			// Replace commas in values if any (simple sanitization)
			val := strings.ReplaceAll(v, ",", "%2C")
			hBuilder.WriteString(fmt.Sprintf("%s: %s", k, val))
		}
		headerString = hBuilder.String()
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("vidstack-%x.sock", randomBytes))
	}

	// Build mpv arguments. mpv starts paused so the session state record and the
	// process agree until a play intent arrives.
	// Do NOT pass --vo, --profile, --hwdec — respect user's mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--pause",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
	}

	if headerString != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", headerString))
	}

	args = append(args, safeURL)

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
		m.emit(Event{Type: Closed})
	}()

	// Wait for the IPC socket to become available
	if err := m.waitForSocket(); err != nil {
		// If socket never became ready, kill the orphaned process
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = newEventListener(m.socketPath, m.emit)
	if err := m.events.start(); err != nil {
		return fmt.Errorf("event listener: %w", err)
	}

	m.loaded = true
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play unsuspends playback.
func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetVolume sets the engine volume. mpv speaks percentages, the engine contract
// speaks 0-1.
func (m *MPV) SetVolume(volume float64) error {
	return m.setProperty("volume", volume*100)
}

// SetMuted toggles audio muting.
func (m *MPV) SetMuted(muted bool) error {
	return m.setProperty("mute", muted)
}

// SetFullscreen implements the FullscreenEngine capability.
func (m *MPV) SetFullscreen(active bool) error {
	return m.setProperty("fullscreen", active)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.events != nil {
		m.events.stop()
	}

	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	// Clean up the socket file
	_ = os.Remove(m.socketPath)

	m.loaded = false
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// setProperty assigns an mpv property via IPC.
func (m *MPV) setProperty(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Prevents flag injection from untrusted playlist entries.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the window title for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
