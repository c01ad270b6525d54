package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sweetshop/api/internal/models"
)

type OrderLine struct {
	SweetID  uuid.UUID
	Quantity int
}

// CreateOrder runs the whole validate/persist/decrement sequence in one
// transaction. Sweet rows are locked FOR UPDATE on postgres, and every
// decrement is additionally guarded with a stock >= quantity predicate, so two
// orders racing for the last units cannot both commit. Any failure rolls the
// order and all decrements back.
func (r *GormRepo) CreateOrder(ctx context.Context, customerName string, lines []OrderLine) (*models.Order, error) {
	var created *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// duplicate lines for one sweet must be checked and decremented as
		// their aggregate, not line by line
		need := make(map[uuid.UUID]int, len(lines))
		unique := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			if _, seen := need[line.SweetID]; !seen {
				unique = append(unique, line.SweetID)
			}
			need[line.SweetID] += line.Quantity
		}

		sweets := make(map[uuid.UUID]models.Sweet, len(unique))
		for _, id := range unique {
			q := tx
			if tx.Dialector.Name() == "postgres" {
				q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}

			var sweet models.Sweet
			if err := q.Where("id = ?", id).First(&sweet).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("sweet with ID %s not found: %w", id, gorm.ErrRecordNotFound)
				}
				return err
			}

			if sweet.Stock < need[id] {
				return &StockError{SweetName: sweet.Name, Available: sweet.Stock}
			}
			sweets[id] = sweet
		}

		var total float64
		items := make([]models.OrderItem, 0, len(lines))
		for i, line := range lines {
			sweet := sweets[line.SweetID]
			linePrice := sweet.Price * float64(line.Quantity)
			total += linePrice
			items = append(items, models.OrderItem{
				SweetID:   sweet.ID,
				SweetName: sweet.Name,
				Quantity:  line.Quantity,
				Price:     linePrice,
				Position:  i,
			})
		}

		order := &models.Order{
			CustomerName: customerName,
			TotalPrice:   total,
			Status:       models.OrderStatusPlaced,
			Items:        items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, id := range unique {
			res := tx.Model(&models.Sweet{}).
				Where("id = ? AND stock >= ?", id, need[id]).
				UpdateColumn("stock", gorm.Expr("stock - ?", need[id]))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// the guard only fires when another writer got between the
				// check and the decrement; the re-read is this sweet's real
				// remaining stock because nothing in this tx touched its row
				var sweet models.Sweet
				if err := tx.Where("id = ?", id).First(&sweet).Error; err != nil {
					return err
				}
				return &StockError{SweetName: sweet.Name, Available: sweet.Stock}
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Omit("Items").Save(o).Error
}
