package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// ipcStub accepts connections on a unix socket, records every command it
// receives, and answers each with a success response.
type ipcStub struct {
	socket   string
	listener net.Listener

	mu       sync.Mutex
	commands [][]interface{}
}

var stubCounter atomic.Int64

func newIpcStub(t *testing.T) *ipcStub {
	socket := filepath.Join(os.TempDir(),
		fmt.Sprintf("vidstack-test-%d-%d.sock", os.Getpid(), stubCounter.Add(1)))

	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen on %s: %v", socket, err)
	}

	s := &ipcStub{socket: socket, listener: listener}
	go s.serve()
	t.Cleanup(s.close)
	return s
}

func (s *ipcStub) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *ipcStub) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err == nil {
			s.mu.Lock()
			s.commands = append(s.commands, cmd.Command)
			s.mu.Unlock()
		}
		_, _ = conn.Write([]byte("{\"error\":\"success\"}\n"))
	}
}

func (s *ipcStub) received() [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]interface{}, len(s.commands))
	copy(out, s.commands)
	return out
}

func (s *ipcStub) close() {
	_ = s.listener.Close()
	_ = os.Remove(s.socket)
}

func TestLoadReplace(t *testing.T) {
	Convey("Load on a running engine", t, func() {
		stub := newIpcStub(t)

		m := NewMPV()
		m.socketPath = stub.socket
		m.loaded = true

		So(m.Load(Source{URL: "https://x.test/next.mp4", Title: "Next Up"}), ShouldBeNil)

		commands := stub.received()
		So(commands, ShouldHaveLength, 2)
		So(commands[0], ShouldResemble, []interface{}{"loadfile", "https://x.test/next.mp4", "replace"})

		Convey("The window title follows the replaced source", func() {
			So(commands[1], ShouldResemble, []interface{}{"set_property", "force-media-title", "Next Up"})
		})

		Convey("An untitled source falls back to its URL", func() {
			So(m.Load(Source{URL: "https://x.test/other.mp4"}), ShouldBeNil)

			commands := stub.received()
			So(commands[len(commands)-1], ShouldResemble,
				[]interface{}{"set_property", "force-media-title", "https://x.test/other.mp4"})
		})
	})
}
