package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Watch holds one pooled connection in LISTEN mode and reports the key of
// every kv_store write, including this process's own. It blocks until ctx is
// done.
func (d *DB) Watch(ctx context.Context, onChange func(key string)) error {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer func() {
		// a connection interrupted mid-wait is closed by pgx and dropped by the pool
		if !conn.Conn().IsClosed() {
			conn.Exec(context.Background(), "UNLISTEN *")
		}
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", ChangeChannel, err)
	}
	d.logger.Debug("Listening for storage changes", zap.String("channel", ChangeChannel))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed waiting for notification: %w", err)
		}
		onChange(notification.Payload)
	}
}
