package worker

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/oledcluster/microbroadcast/internal/directive"
)

// announce implements W-Registrar (spec §4.4's REGISTER counterpart):
// it dials the coordinator's broadcast port and writes a single
// REGISTER <mac> message. Dial failures are retried with exponential
// backoff bounded by a few seconds, since the coordinator may not be up
// yet at worker boot or may be restarting — there's no reason to give up
// after one attempt the way a fatal-at-boot error would.
func (w *Worker) announce(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 10 * time.Second

	return backoff.Retry(func() error {
		return w.announceOnce(ctx)
	}, backoff.WithContext(bo, ctx))
}

func (w *Worker) announceOnce(ctx context.Context) error {
	addr := net.JoinHostPort(w.cfg.CoordinatorAddr, strconv.Itoa(w.cfg.BroadcastPort))

	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write(directive.FormatRegister(w.cfg.MAC))
	return err
}
