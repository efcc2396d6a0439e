package worker

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
)

const maxDirectivePayload = 1024 // spec §4.6: "a small buffer"; mirrors C-RegListener's 1 KiB ceiling

// runReceiver implements W-Receiver combined with W-Registrar's
// re-announce trigger (spec §4.6, SPEC_FULL §5.1: "one combined
// accept-loop goroutine"). It announces once, binds the broadcast port,
// then accepts directives until the port has gone idle for
// cfg.IdleWindow, at which point it re-announces and rebinds.
func (w *Worker) runReceiver(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := w.announce(ctx); err != nil {
			w.Errorf("registrar: announce failed: %v", err)
		}

		if err := w.acceptUntilIdle(ctx); err != nil {
			return err
		}
	}
}

// acceptUntilIdle binds the broadcast port and accepts connections until
// cfg.IdleWindow elapses without one, then returns so the caller
// re-announces and rebinds (spec §4.6 step 4).
func (w *Worker) acceptUntilIdle(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", endpointAddr(w.cfg.BroadcastPort))
	if err != nil {
		w.Errorf("receiver: failed to bind broadcast port %d: %v", w.cfg.BroadcastPort, err)
		return err
	}
	defer ln.Close()

	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return errors.New("receiver: listener is not a *net.TCPListener")
	}

	w.Printf("receiver: accepting directives on %s", ln.Addr())

	idleSince := time.Now()
	const pollInterval = 250 * time.Millisecond

	for {
		if ctx.Err() != nil {
			return nil
		}

		tcpLn.SetDeadline(time.Now().Add(pollInterval))
		conn, err := tcpLn.Accept()
		if err != nil {
			if isTimeout(err) {
				if time.Since(idleSince) >= w.cfg.IdleWindow {
					w.Printf("receiver: idle for %s, re-announcing", w.cfg.IdleWindow)
					return nil
				}
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			w.Errorf("receiver: accept error: %v", err)
			return err
		}

		idleSince = time.Now()
		w.handleDirectiveConn(conn)
	}
}

func (w *Worker) handleDirectiveConn(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(w.cfg.AcceptTimeout))

	buf := make([]byte, maxDirectivePayload)
	n, err := io.ReadFull(conn, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		w.Errorf("receiver: read error: %v", err)
		return
	}

	payload := string(buf[:n])

	d, err := directive.Parse(payload, time.Now())
	if err != nil {
		// spec §7: "Malformed directive (coordinator -> worker): logged on
		// the worker; ignored. Never fatal."
		w.Printf("receiver: discarding malformed directive: %v", err)
		return
	}

	if d.Kind == directive.KindPing {
		return
	}

	last, _ := w.lastPayload.Load().(string)
	if payload == last {
		return // spec §4.6: duplicate of last-dispatched payload is a no-op
	}
	w.lastPayload.Store(payload)

	w.dispatch(d)
}

func endpointAddr(port int) string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(port))
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
