package coordinator

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/registry"
)

// acceptOnce binds a loopback listener, returns its endpoint, and hands
// back a channel carrying the one payload written to the first accepted
// connection — mirroring how a worker's W-Receiver would read to EOF.
func acceptOnce(t *testing.T) (ep registry.Endpoint, payloads <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		ch <- string(buf[:n])
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return registry.Endpoint{IP: net.ParseIP(host), Port: port}, ch
}

func TestBroadcastToWritesCurrentDirective(t *testing.T) {
	c := newTestCoordinator()
	ep, payloads := acceptOnce(t)

	c.reg.Add("AA:BB:CC:DD:EE:02", ep)
	c.reg.SetCurrent(registry.One("AA:BB:CC:DD:EE:02"), directive.Message("hi"))

	rec, _ := c.reg.Get("AA:BB:CC:DD:EE:02")
	c.broadcastTo(rec, time.Now())

	select {
	case payload := <-payloads:
		if payload != "MESSAGE hi" {
			t.Errorf("payload = %q, want %q", payload, "MESSAGE hi")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker never received a broadcast")
	}
}

func TestBroadcastToSendsPingWhenNoCurrent(t *testing.T) {
	c := newTestCoordinator()
	ep, payloads := acceptOnce(t)

	c.reg.Add("AA:BB:CC:DD:EE:02", ep)
	rec, _ := c.reg.Get("AA:BB:CC:DD:EE:02")
	c.broadcastTo(rec, time.Now())

	select {
	case payload := <-payloads:
		if payload != "PING" {
			t.Errorf("payload = %q, want PING", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker never received a broadcast")
	}
}

func TestBroadcastToEvictsNonPersistentOnConnectFailure(t *testing.T) {
	c := newTestCoordinator()

	// Nothing listens on this port, so the dial fails outright (spec
	// §4.3: "connect timeout or connect error -> evict via remove(mac)").
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	c.reg.Add("AA:BB:CC:DD:EE:02", registry.Endpoint{IP: addr.IP, Port: addr.Port})
	rec, _ := c.reg.Get("AA:BB:CC:DD:EE:02")
	c.broadcastTo(rec, time.Now())

	if _, ok := c.reg.Get("AA:BB:CC:DD:EE:02"); ok {
		t.Error("non-persistent worker should be evicted after a connect failure")
	}
}

func TestBroadcastToDeactivatesPersistentOnConnectFailure(t *testing.T) {
	c := newTestCoordinator()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	c.reg.Add("AA:BB:CC:DD:EE:01", registry.Endpoint{IP: addr.IP, Port: addr.Port})
	rec, _ := c.reg.Get("AA:BB:CC:DD:EE:01")
	c.broadcastTo(rec, time.Now())

	rec, ok := c.reg.Get("AA:BB:CC:DD:EE:01")
	if !ok {
		t.Fatal("persistent worker record must remain")
	}
	if rec.Active || rec.Address != nil {
		t.Errorf("persistent worker should be deactivated, got Active=%v Address=%v", rec.Active, rec.Address)
	}
}

func TestBroadcastOnceSkipsWorkersWithoutAddress(t *testing.T) {
	c := newTestCoordinator() // Alice (persistent) has no address yet

	// Should not panic or hang despite the persistent worker lacking an
	// address (spec §3: "address = None => worker is skipped").
	c.broadcastOnce()

	rec, ok := c.reg.Get("AA:BB:CC:DD:EE:01")
	if !ok || rec.Address != nil {
		t.Errorf("unaddressed persistent worker should be left untouched, got %+v", rec)
	}
}
