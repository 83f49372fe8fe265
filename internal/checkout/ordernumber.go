package checkout

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// nextOrderNumber allocates the next order number for the day inside the
// caller's transaction. The per-day counter row is upserted atomically so
// concurrent checkouts never share a number.
func nextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")
	var value int64
	err := tx.Raw(`
INSERT INTO order_number_counters (day, value)
VALUES (?, 1)
ON CONFLICT (day)
DO UPDATE SET value = order_number_counters.value + 1
RETURNING value`, day).Scan(&value).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD%s%04d", day, value), nil
}
