package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"ihsan-checkout/internal/infra/sqlite3"
	"ihsan-checkout/internal/stories/donations"
)

const donationsTable = "donations"

var donationRowFields = fields(donationRow{})

type donationRow struct {
	ID             int64      `db:"id"`
	GatewayID      *string    `db:"gateway_id"`
	DonorKey       string     `db:"donor_key"`
	Kind           string     `db:"kind"`
	Currency       string     `db:"currency"`
	AmountUSD      float64    `db:"amount_usd"`
	TeamSupportUSD float64    `db:"team_support_usd"`
	CoverFees      bool       `db:"cover_fees"`
	Status         string     `db:"status"`
	ContextMode    string     `db:"context_mode"`
	CampaignID     *string    `db:"campaign_id"`
	CategoryID     *string    `db:"category_id"`
	ProcessedAt    *time.Time `db:"processed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (d donationRow) ToModel() *donations.Donation {
	return &donations.Donation{
		ID:             d.ID,
		GatewayID:      d.GatewayID,
		DonorKey:       d.DonorKey,
		Kind:           d.Kind,
		Currency:       d.Currency,
		AmountUSD:      d.AmountUSD,
		TeamSupportUSD: d.TeamSupportUSD,
		CoverFees:      d.CoverFees,
		Status:         donations.Status(d.Status),
		ContextMode:    d.ContextMode,
		CampaignID:     d.CampaignID,
		CategoryID:     d.CategoryID,
		ProcessedAt:    d.ProcessedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (s *storageImpl) CreateDonation(ctx context.Context, donation donations.Donation) (*donations.Donation, error) {
	params := map[string]interface{}{
		"gateway_id":       donation.GatewayID,
		"donor_key":        donation.DonorKey,
		"kind":             donation.Kind,
		"currency":         donation.Currency,
		"amount_usd":       donation.AmountUSD,
		"team_support_usd": donation.TeamSupportUSD,
		"cover_fees":       donation.CoverFees,
		"status":           string(donation.Status),
		"context_mode":     donation.ContextMode,
		"campaign_id":      donation.CampaignID,
		"category_id":      donation.CategoryID,
		"processed_at":     donation.ProcessedAt,
		"created_at":       s.now(),
		"updated_at":       s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(donationsTable).
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

	return s.GetDonation(ctx, donations.GetCriteria{ID: &id})
}

func (s *storageImpl) GetDonation(ctx context.Context, criteria donations.GetCriteria) (*donations.Donation, error) {
	query := s.stmpBuilder().
		Select(donationRowFields).
		From(donationsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.GatewayID != nil {
		query = query.Where(sq.Eq{"gateway_id": *criteria.GatewayID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row donationRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) UpdateDonation(ctx context.Context, criteria donations.GetCriteria, params donations.UpdateParams) (*donations.Donation, error) {
	query := s.stmpBuilder().
		Update(donationsTable).
		Set("updated_at", s.now())

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.GatewayID != nil {
		query = query.Where(sq.Eq{"gateway_id": *criteria.GatewayID})
	}
	if params.Status != nil {
		query = query.Set("status", string(*params.Status))
	}
	if params.GatewayID != nil {
		query = query.Set("gateway_id", *params.GatewayID)
	}
	if params.ProcessedAt != nil {
		query = query.Set("processed_at", *params.ProcessedAt)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetDonation(ctx, criteria)
}

func (s *storageImpl) ListDonations(ctx context.Context, criteria donations.ListCriteria) ([]*donations.Donation, error) {
	query := s.stmpBuilder().
		Select(donationRowFields).
		From(donationsTable).
		OrderBy("id ASC")

	if criteria.Status != nil {
		query = query.Where(sq.Eq{"status": string(*criteria.Status)})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []donationRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*donations.Donation, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}
	return result, nil
}

// ApproveDonationAndClearCart finalizes a confirmed submission in one
// transaction: the ledger row flips to approved and, for cart checkouts,
// the donor's cart empties. Running both in one tx keeps "cart cleared but
// donation not recorded" impossible.
func (s *storageImpl) ApproveDonationAndClearCart(ctx context.Context, donationID int64, gatewayID string, donorKey string, clearCart bool) error {
	return sqlite3.WithTx(ctx, s.db, nil, func(tx *sqlx.Tx) error {
		q, args, err := s.stmpBuilder().
			Update(donationsTable).
			Set("status", string(donations.StatusApproved)).
			Set("gateway_id", gatewayID).
			Set("processed_at", s.now()).
			Set("updated_at", s.now()).
			Where(sq.Eq{"id": donationID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build sql query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("tx.ExecContext: %w", err)
		}

		if clearCart {
			return s.clearCartTx(ctx, tx, donorKey)
		}
		return nil
	})
}
