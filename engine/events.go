package engine

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/vidstack/elements/log"
)

// eventListener provides real-time mpv event monitoring via observe_property,
// translating mpv property changes into engine events.
type eventListener struct {
	socketPath string
	conn       net.Conn
	emit       Listener
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool

	// translation state across property updates
	seeking bool
}

// newEventListener creates a new event listener for the given socket.
func newEventListener(socketPath string, emit Listener) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		emit:       emit,
		stopCh:     make(chan struct{}),
	}
}

// start begins listening for mpv property change events.
// It sets up property observers and starts a dedicated read loop.
func (el *eventListener) start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	// Subscribe to property change events via IPC
	// observe_property <id> <property> — mpv sends notifications when they change
	properties := []struct {
		id   int
		name string
	}{
		{1, "pause"},
		{2, "time-pos"},
		{3, "duration"},
		{4, "volume"},
		{5, "mute"},
		{6, "seeking"},
		{7, "eof-reached"},
		{8, "demuxer-cache-time"},
		{9, "paused-for-cache"},
		{10, "fullscreen"},
	}

	for _, prop := range properties {
		_, err := doSendCommand(el.socketPath, []interface{}{"observe_property", prop.id, prop.name})
		if err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	// Open a persistent connection for the event read loop
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	// Start the event read loop in a background goroutine
	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// stop terminates the event listener.
func (el *eventListener) stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop continuously reads events from the persistent mpv connection.
// mpv sends newline-delimited JSON events when observed properties change.
func (el *eventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		// Set read deadline to avoid blocking forever
		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue // timeout is normal, keep listening
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		// mpv sends multiple JSON objects separated by newlines
		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Last incomplete line goes to remainder for next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.processEvent(line)
		}
	}
}

// processEvent parses a single mpv event JSON line and dispatches its translation.
func (el *eventListener) processEvent(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return // Skip unparseable lines
	}

	eventType, ok := event["event"].(string)
	if !ok {
		return
	}

	switch eventType {
	case "property-change":
		name, _ := event["name"].(string)
		el.translateProperty(name, event["data"])
	case "file-loaded":
		el.emit(Event{Type: CanPlay})
	case "playback-restart":
		el.emit(Event{Type: Playing})
	}
}

// translateProperty maps one mpv property update onto the engine event contract.
func (el *eventListener) translateProperty(name string, data interface{}) {
	switch name {
	case "pause":
		if paused, ok := data.(bool); ok {
			if paused {
				el.emit(Event{Type: Pause})
			} else {
				el.emit(Event{Type: Play})
			}
		}
	case "time-pos":
		if pos, ok := data.(float64); ok {
			el.emit(Event{Type: TimeUpdate, Value: pos})
		}
	case "duration":
		if dur, ok := data.(float64); ok {
			el.emit(Event{Type: DurationChange, Value: dur})
		}
	case "volume":
		if vol, ok := data.(float64); ok {
			el.emit(Event{Type: VolumeChange, Value: vol / 100})
		}
	case "mute":
		if muted, ok := data.(bool); ok {
			el.emit(Event{Type: MutedChange, Value: muted})
		}
	case "seeking":
		if seeking, ok := data.(bool); ok {
			wasSeeking := el.seeking
			el.seeking = seeking
			if seeking {
				el.emit(Event{Type: Seeking, Value: true})
			} else if wasSeeking {
				el.emit(Event{Type: Seeked})
			}
		}
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			el.emit(Event{Type: Ended})
		}
	case "demuxer-cache-time":
		if cached, ok := data.(float64); ok {
			el.emit(Event{Type: Progress, Value: ranges(0, cached)})
		}
	case "paused-for-cache":
		if stalled, ok := data.(bool); ok {
			if stalled {
				el.emit(Event{Type: Waiting})
			} else {
				el.emit(Event{Type: Playing})
			}
		}
	case "fullscreen":
		if active, ok := data.(bool); ok {
			el.emit(Event{Type: FullscreenChange, Value: active})
		}
	}
}
