package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"ihsan-checkout/internal/stories/cart"
)

const cartItemsTable = "cart_items"

var cartItemRowFields = fields(cartItemRow{})

type cartItemRow struct {
	ID         int64     `db:"id"`
	DonorKey   string    `db:"donor_key"`
	CampaignID string    `db:"campaign_id"`
	Amount     float64   `db:"amount"`
	AmountUSD  float64   `db:"amount_usd"`
	Currency   string    `db:"currency"`
	CreatedAt  time.Time `db:"created_at"`
}

func (c cartItemRow) ToModel() *cart.Item {
	return &cart.Item{
		ID:         c.ID,
		DonorKey:   c.DonorKey,
		CampaignID: c.CampaignID,
		Amount:     c.Amount,
		AmountUSD:  c.AmountUSD,
		Currency:   c.Currency,
		CreatedAt:  c.CreatedAt,
	}
}

func (s *storageImpl) CreateCartItem(ctx context.Context, item cart.Item) (*cart.Item, error) {
	params := map[string]interface{}{
		"donor_key":   item.DonorKey,
		"campaign_id": item.CampaignID,
		"amount":      item.Amount,
		"amount_usd":  item.AmountUSD,
		"currency":    item.Currency,
		"created_at":  s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(cartItemsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	return s.getCartItem(ctx, id)
}

func (s *storageImpl) getCartItem(ctx context.Context, id int64) (*cart.Item, error) {
	q, args, err := s.stmpBuilder().
		Select(cartItemRowFields).
		From(cartItemsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row cartItemRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

// ListCartItems returns the donor's lines in insertion order.
func (s *storageImpl) ListCartItems(ctx context.Context, donorKey string) ([]*cart.Item, error) {
	q, args, err := s.stmpBuilder().
		Select(cartItemRowFields).
		From(cartItemsTable).
		Where(sq.Eq{"donor_key": donorKey}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []cartItemRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*cart.Item, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}
	return result, nil
}

func (s *storageImpl) ClearCart(ctx context.Context, donorKey string) error {
	q, args, err := s.stmpBuilder().
		Delete(cartItemsTable).
		Where(sq.Eq{"donor_key": donorKey}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}
	return nil
}

func (s *storageImpl) clearCartTx(ctx context.Context, tx *sqlx.Tx, donorKey string) error {
	q, args, err := s.stmpBuilder().
		Delete(cartItemsTable).
		Where(sq.Eq{"donor_key": donorKey}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("tx.ExecContext: %w", err)
	}
	return nil
}
