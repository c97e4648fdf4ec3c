package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ihsan-checkout/internal/stories/campaigns"
)

const (
	campaignsTable  = "campaigns"
	categoriesTable = "categories"
)

var (
	campaignRowFields = fields(campaignRow{})
	categoryRowFields = fields(categoryRow{})
)

type campaignRow struct {
	ID            string    `db:"id"`
	CategoryID    string    `db:"category_id"`
	TitleEN       string    `db:"title_en"`
	TitleAR       string    `db:"title_ar"`
	GoalAmount    float64   `db:"goal_amount"`
	RaisedAmount  float64   `db:"raised_amount"`
	AllowsMonthly bool      `db:"allows_monthly"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (c campaignRow) ToModel() *campaigns.Campaign {
	return &campaigns.Campaign{
		ID:            c.ID,
		CategoryID:    c.CategoryID,
		TitleEN:       c.TitleEN,
		TitleAR:       c.TitleAR,
		GoalAmount:    c.GoalAmount,
		RaisedAmount:  c.RaisedAmount,
		AllowsMonthly: c.AllowsMonthly,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type categoryRow struct {
	ID          string    `db:"id"`
	TitleEN     string    `db:"title_en"`
	TitleAR     string    `db:"title_ar"`
	QuickDonate bool      `db:"quick_donate"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c categoryRow) ToModel() *campaigns.Category {
	return &campaigns.Category{
		ID:          c.ID,
		TitleEN:     c.TitleEN,
		TitleAR:     c.TitleAR,
		QuickDonate: c.QuickDonate,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s *storageImpl) CreateCampaign(ctx context.Context, campaign campaigns.Campaign) (*campaigns.Campaign, error) {
	params := map[string]interface{}{
		"id":             campaign.ID,
		"category_id":    campaign.CategoryID,
		"title_en":       campaign.TitleEN,
		"title_ar":       campaign.TitleAR,
		"goal_amount":    campaign.GoalAmount,
		"raised_amount":  campaign.RaisedAmount,
		"allows_monthly": campaign.AllowsMonthly,
		"is_active":      campaign.IsActive,
		"created_at":     s.now(),
		"updated_at":     s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(campaignsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetCampaign(ctx, campaigns.GetCriteria{ID: &campaign.ID})
}

func (s *storageImpl) GetCampaign(ctx context.Context, criteria campaigns.GetCriteria) (*campaigns.Campaign, error) {
	query := s.stmpBuilder().
		Select(campaignRowFields).
		From(campaignsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row campaignRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) ListCampaigns(ctx context.Context, criteria campaigns.ListCriteria) ([]*campaigns.Campaign, error) {
	query := s.stmpBuilder().
		Select(campaignRowFields).
		From(campaignsTable).
		OrderBy("created_at DESC")

	if criteria.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *criteria.IsActive})
	}
	if criteria.CategoryID != nil {
		query = query.Where(sq.Eq{"category_id": *criteria.CategoryID})
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

	var rows []campaignRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*campaigns.Campaign, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}
	return result, nil
}

func (s *storageImpl) UpdateCampaign(ctx context.Context, criteria campaigns.GetCriteria, params campaigns.UpdateParams) (*campaigns.Campaign, error) {
	query := s.stmpBuilder().
		Update(campaignsTable).
		Set("updated_at", s.now())

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if params.RaisedAmount != nil {
		query = query.Set("raised_amount", *params.RaisedAmount)
	}
	if params.IsActive != nil {
		query = query.Set("is_active", *params.IsActive)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetCampaign(ctx, criteria)
}

func (s *storageImpl) CreateCategory(ctx context.Context, category campaigns.Category) (*campaigns.Category, error) {
	params := map[string]interface{}{
		"id":           category.ID,
		"title_en":     category.TitleEN,
		"title_ar":     category.TitleAR,
		"quick_donate": category.QuickDonate,
		"created_at":   s.now(),
		"updated_at":   s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(categoriesTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetCategory(ctx, campaigns.GetCriteria{ID: &category.ID})
}

func (s *storageImpl) GetCategory(ctx context.Context, criteria campaigns.GetCriteria) (*campaigns.Category, error) {
	query := s.stmpBuilder().
		Select(categoryRowFields).
		From(categoriesTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row categoryRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) ListCategories(ctx context.Context) ([]*campaigns.Category, error) {
	q, args, err := s.stmpBuilder().
		Select(categoryRowFields).
		From(categoriesTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*campaigns.Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}
	return result, nil
}
