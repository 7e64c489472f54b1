// Package listener accepts player commands over the network and hands the decoded
// events to the game session.
package listener

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/beka-birhanu/maze-craze/game"
	logger "github.com/beka-birhanu/maze-craze/log"
	"github.com/beka-birhanu/maze-craze/protocol"
)

const (
	defaultMaxLineLength = 256
	defaultIdleTimeout   = 5 * time.Minute
)

var (
	ErrMissingHandler = errors.New("event handler is required")
)

// EventHandler is called for every command that decodes into an event.
type EventHandler func(game.Event)

// TCPOption configures a TCPListener.
type TCPOption func(*TCPListener)

// TCPWithMaxLineLength bounds the length of a single command line in bytes.
func TCPWithMaxLineLength(n int) TCPOption {
	return func(l *TCPListener) {
		if n > 0 {
			l.maxLineLength = n
		}
	}
}

// TCPWithIdleTimeout closes connections that stay silent for d.
func TCPWithIdleTimeout(d time.Duration) TCPOption {
	return func(l *TCPListener) {
		if d > 0 {
			l.idleTimeout = d
		}
	}
}

// TCPWithLogger sets the listener logger.
func TCPWithLogger(lg logger.Logger) TCPOption {
	return func(l *TCPListener) {
		l.logger = lg
	}
}

// TCPConfig is used to pass the required parameters to NewTCPListener.
type TCPConfig struct {
	ListenAddr string       // TCP address to listen on, e.g. "127.0.0.1:8080".
	Handler    EventHandler // Receives decoded events.
}

// TCPListener reads newline separated commands from TCP connections, as sent by
// e.g. `echo "okko:connect" | nc localhost 8080`. Lines that do not decode are
// dropped; a line longer than the configured limit ends the connection.
type TCPListener struct {
	listener      net.Listener          // Listening socket.
	handler       EventHandler          // Receives decoded events.
	maxLineLength int                   // Longest accepted line in bytes.
	idleTimeout   time.Duration         // Read deadline per line.
	logger        logger.Logger         // Listener logger.
	conns         map[net.Conn]struct{} // Open client connections.
	connsLock     sync.Mutex            // Lock for accessing conns.
	stop          chan struct{}         // Closed by Stop.
	stopOnce      sync.Once             // Guards closing stop.
	wg            sync.WaitGroup        // Tracks connection goroutines.
}

// NewTCPListener binds the listen address.
func NewTCPListener(c TCPConfig, options ...TCPOption) (*TCPListener, error) {
	if c.Handler == nil {
		return nil, ErrMissingHandler
	}

	ln, err := net.Listen("tcp", c.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", c.ListenAddr, err)
	}

	l := &TCPListener{
		listener:      ln,
		handler:       c.Handler,
		maxLineLength: defaultMaxLineLength,
		idleTimeout:   defaultIdleTimeout,
		logger:        logger.Discard(),
		conns:         make(map[net.Conn]struct{}),
		stop:          make(chan struct{}),
	}

	// Run optional configurations
	for _, opt := range options {
		opt(l)
	}

	return l, nil
}

// Addr returns the bound address.
func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections until Stop is called.
func (l *TCPListener) Serve() {
	l.logger.Info(fmt.Sprintf("listening for commands on tcp address: %s", l.Addr()))
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.stop:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Error(fmt.Sprintf("accepting tcp connection: %s", err))
			continue
		}

		if !l.track(conn) {
			_ = conn.Close()
			return
		}
		l.wg.Add(1)
		go l.handleConn(conn)
	}
}

// Stop closes the listening socket and every open connection, then waits for the
// connection goroutines to return.
func (l *TCPListener) Stop() {
	l.stopOnce.Do(func() {
		l.logger.Info("tcp listener stopping gracefully...")
		close(l.stop)
		_ = l.listener.Close()

		l.connsLock.Lock()
		for conn := range l.conns {
			_ = conn.Close()
		}
		l.connsLock.Unlock()

		l.wg.Wait()
		l.logger.Info("tcp listener stopped")
	})
}

func (l *TCPListener) track(conn net.Conn) bool {
	l.connsLock.Lock()
	defer l.connsLock.Unlock()
	select {
	case <-l.stop:
		return false
	default:
	}
	l.conns[conn] = struct{}{}
	return true
}

func (l *TCPListener) untrack(conn net.Conn) {
	l.connsLock.Lock()
	delete(l.conns, conn)
	l.connsLock.Unlock()
}

// handleConn decodes lines from one connection until EOF, error or idle timeout.
func (l *TCPListener) handleConn(conn net.Conn) {
	defer l.wg.Done()
	defer l.untrack(conn)
	defer conn.Close()

	l.logger.Debug(fmt.Sprintf("connection from %s", conn.RemoteAddr()))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, l.maxLineLength), l.maxLineLength)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(l.idleTimeout)); err != nil {
			l.logger.Warning(fmt.Sprintf("setting read deadline: %s", err))
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		event, err := protocol.DecodeBytes(line)
		if err != nil {
			l.logger.Debug(fmt.Sprintf("dropping line from %s: %s", conn.RemoteAddr(), err))
			continue
		}
		l.handler(event)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		l.logger.Debug(fmt.Sprintf("closing connection from %s: %s", conn.RemoteAddr(), err))
	}
}
