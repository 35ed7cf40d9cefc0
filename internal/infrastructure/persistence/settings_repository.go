package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/distriflow/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppSetting is a key/value row for operator-tunable configuration
type AppSetting struct {
	Key   string `gorm:"primarykey;size:64"`
	Value string `gorm:"type:text"`
}

// TableName specifies the table name for AppSetting
func (AppSetting) TableName() string {
	return "app_settings"
}

const (
	settingApprovalPolicy = "approval_policy"
	settingDefaultTaxRate = "default_tax_rate"
)

// defaultTaxRatePercent is the VAT rate applied when no override is stored
var defaultTaxRatePercent = decimal.NewFromInt(20)

type approvalPolicyRecord struct {
	FlagNegativeLine      bool   `json:"flag_negative_line"`
	EnforceMinMargin      bool   `json:"enforce_min_margin"`
	MinMarginPercent      string `json:"min_margin_percent"`
	FlagNegativeAggregate bool   `json:"flag_negative_aggregate"`
}

// GormSettingsRepository reads and writes operator settings. Loaders never
// fail an order mutation: a missing or unreadable setting logs a warning and
// returns the documented default.
type GormSettingsRepository struct {
	db             *gorm.DB
	logger         *zap.Logger
	fallbackTaxPct decimal.Decimal
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB, logger *zap.Logger) *GormSettingsRepository {
	return &GormSettingsRepository{db: db, logger: logger, fallbackTaxPct: defaultTaxRatePercent}
}

// WithFallbackTaxRate overrides the VAT rate used when no setting is stored.
// Negative rates are ignored.
func (r *GormSettingsRepository) WithFallbackTaxRate(rate decimal.Decimal) *GormSettingsRepository {
	if !rate.IsNegative() {
		r.fallbackTaxPct = rate
	}
	return r
}

// LoadApprovalPolicyOrDefault returns the stored margin policy, or the
// default policy when none is stored or the stored value does not parse
func (r *GormSettingsRepository) LoadApprovalPolicyOrDefault(ctx context.Context) order.ApprovalPolicy {
	raw, err := r.load(ctx, settingApprovalPolicy)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("loading approval policy failed, using default", zap.Error(err))
		}
		return order.DefaultApprovalPolicy()
	}

	var record approvalPolicyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		r.logger.Warn("stored approval policy is malformed, using default", zap.Error(err))
		return order.DefaultApprovalPolicy()
	}

	minMargin := decimal.Zero
	if record.MinMarginPercent != "" {
		minMargin, err = decimal.NewFromString(record.MinMarginPercent)
		if err != nil {
			r.logger.Warn("stored min margin is malformed, using default policy",
				zap.String("value", record.MinMarginPercent), zap.Error(err))
			return order.DefaultApprovalPolicy()
		}
	}

	return order.ApprovalPolicy{
		FlagNegativeLine:      record.FlagNegativeLine,
		EnforceMinMargin:      record.EnforceMinMargin,
		MinMarginPercent:      minMargin,
		FlagNegativeAggregate: record.FlagNegativeAggregate,
	}
}

// SaveApprovalPolicy stores the margin policy
func (r *GormSettingsRepository) SaveApprovalPolicy(ctx context.Context, policy order.ApprovalPolicy) error {
	record := approvalPolicyRecord{
		FlagNegativeLine:      policy.FlagNegativeLine,
		EnforceMinMargin:      policy.EnforceMinMargin,
		MinMarginPercent:      policy.MinMarginPercent.String(),
		FlagNegativeAggregate: policy.FlagNegativeAggregate,
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.save(ctx, settingApprovalPolicy, string(raw))
}

// LoadTaxRateOrDefault returns the stored VAT rate in percent, or the
// configured fallback (20 unless overridden) when none is stored or the
// stored value does not parse
func (r *GormSettingsRepository) LoadTaxRateOrDefault(ctx context.Context) decimal.Decimal {
	raw, err := r.load(ctx, settingDefaultTaxRate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("loading tax rate failed, using default", zap.Error(err))
		}
		return r.fallbackTaxPct
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		r.logger.Warn("stored tax rate is malformed, using default", zap.String("value", raw))
		return r.fallbackTaxPct
	}
	return rate
}

// SaveTaxRate stores the VAT rate in percent
func (r *GormSettingsRepository) SaveTaxRate(ctx context.Context, rate decimal.Decimal) error {
	return r.save(ctx, settingDefaultTaxRate, rate.String())
}

func (r *GormSettingsRepository) load(ctx context.Context, key string) (string, error) {
	var setting AppSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *GormSettingsRepository) save(ctx context.Context, key, value string) error {
	setting := AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).Save(&setting).Error
}
