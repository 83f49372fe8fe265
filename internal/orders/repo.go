package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts an order header.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateItems inserts the snapshotted order lines.
func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser loads an order with items, scoped to its owner.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first with cursor pagination.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error) {
	return r.list(ctx, params, func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ?", userID)
	})
}

// AdminList returns all orders newest first, optionally filtered by status.
func (r *Repository) AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderListDTO, error) {
	return r.list(ctx, params, func(query *gorm.DB) *gorm.DB {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		return query
	})
}

func (r *Repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) (*OrderListDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := scope(r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items"))
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Order
	err = query.
		Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]OrderDTO, 0, len(records))
	for i := range records {
		items = append(items, ToDTO(&records[i]))
	}
	return &OrderListDTO{Orders: items, NextCursor: nextCursor}, nil
}

// UpdateStatusWhere moves an order to status when its current status is in
// allowed. Zero rows affected means the order moved concurrently.
func (r *Repository) UpdateStatusWhere(ctx context.Context, id uuid.UUID, status enums.OrderStatus, allowed ...enums.OrderStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id)
	if len(allowed) > 0 {
		query = query.Where("status IN ?", allowed)
	}
	result := query.Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}

// Stats aggregates order counts and revenue. Cancelled orders never count
// toward revenue.
func (r *Repository) Stats(ctx context.Context, now time.Time) (*StatsDTO, error) {
	stats := &StatsDTO{
		RevenueTotal: decimal.Zero,
		RevenueToday: decimal.Zero,
		RevenueWeek:  decimal.Zero,
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -6)

	type aggregate struct {
		Count   int64
		Revenue decimal.Decimal
	}
	collect := func(since *time.Time) (aggregate, error) {
		var row struct {
			Count   int64           `gorm:"column:count"`
			Revenue decimal.Decimal `gorm:"column:revenue"`
		}
		query := r.db.WithContext(ctx).
			Model(&models.Order{}).
			Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
			Where("status <> ?", enums.OrderStatusCancelled)
		if since != nil {
			query = query.Where("created_at >= ?", *since)
		}
		if err := query.Scan(&row).Error; err != nil {
			return aggregate{}, err
		}
		return aggregate{Count: row.Count, Revenue: row.Revenue}, nil
	}

	total, err := collect(nil)
	if err != nil {
		return nil, err
	}
	today, err := collect(&dayStart)
	if err != nil {
		return nil, err
	}
	week, err := collect(&weekStart)
	if err != nil {
		return nil, err
	}

	stats.OrdersTotal = total.Count
	stats.RevenueTotal = total.Revenue
	stats.OrdersToday = today.Count
	stats.RevenueToday = today.Revenue
	stats.OrdersWeek = week.Count
	stats.RevenueWeek = week.Revenue

	var counts []StatusCount
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	stats.StatusCounts = counts
	return stats, nil
}
