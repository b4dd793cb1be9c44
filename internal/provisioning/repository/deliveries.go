package repository

import (
	"context"
	"time"
)

// Record appends a processed delivery to the audit log. Failures here are
// never allowed to fail the webhook response; callers log and continue.
func (r *Repository) Record(ctx context.Context, eventID, eventType, outcome string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hr_webhook_deliveries (event_id, event_type, outcome)
		VALUES ($1, $2, $3)
	`, eventID, eventType, outcome)
	return err
}

// PurgeOlderThan removes audit rows received before the cutoff. Invoked by
// the retention task in the scheduler process.
func (r *Repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM hr_webhook_deliveries WHERE received_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Compile-time checks that Repository satisfies the provisioning stores.
var (
	_ UserStore     = (*Repository)(nil)
	_ RoleStore     = (*Repository)(nil)
	_ DeliveryStore = (*Repository)(nil)
)
