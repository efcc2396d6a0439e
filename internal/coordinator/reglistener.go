package coordinator

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/registry"
)

// maxRegisterPayload bounds the buffer read from a registering worker
// (spec §4.4: "a ≤1 KiB buffer"); this is also the system-wide payload
// ceiling noted in spec §1 Non-goals.
const maxRegisterPayload = 1024

// registerReadTimeout bounds how long a registering peer may hold its
// handler goroutine; a worker writes its one REGISTER line and closes
// immediately, so a connection still open after this is hung or
// half-open. Mirrors the worker's per-connection read deadline.
const registerReadTimeout = 1 * time.Second

// runRegListener implements C-RegListener (spec §4.4): it binds the
// broadcast port and, on each accept, reads to EOF, parses a REGISTER
// message, and adds the worker to the registry using the peer's IP and
// the canonical broadcast port — never the peer's ephemeral source port.
func (c *Coordinator) runRegListener(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", endpointAddr("0.0.0.0", c.cfg.BroadcastPort))
	if err != nil {
		c.Errorf("reglistener: failed to bind broadcast port %d: %v", c.cfg.BroadcastPort, err)
		return err
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	c.Printf("reglistener: accepting REGISTERs on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			// Per spec §4.4: "Accept loop errors are logged; the listener
			// is never torn down on a per-connection error."
			c.Errorf("reglistener: accept error: %v", err)
			continue
		}
		go c.handleRegisterConn(conn)
	}
}

func (c *Coordinator) handleRegisterConn(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(registerReadTimeout))

	buf := make([]byte, maxRegisterPayload)
	n, err := io.ReadFull(conn, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.Errorf("reglistener: read error from %s: %v", conn.RemoteAddr(), err)
		return
	}

	mac, err := directive.ParseRegister(string(buf[:n]))
	if err != nil {
		c.Printf("reglistener: discarding from %s: %v", conn.RemoteAddr(), err)
		return
	}

	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		c.Errorf("reglistener: could not derive peer address: %v", err)
		return
	}

	ep := registry.Endpoint{IP: net.ParseIP(host), Port: c.cfg.BroadcastPort}
	c.reg.Add(mac, ep)
	c.Printf("reglistener: registered %s at %s", mac, ep)
	c.notifyWS()
}
