package persistence

import (
	"context"
	"testing"

	"github.com/distriflow/backend/internal/domain/partner"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createCreditClient(t *testing.T, db *gorm.DB, limit, balance decimal.Decimal) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Parapharmacie du Port", valueobject.SegmentWholesale)
	require.NoError(t, err)
	require.NoError(t, client.SetCreditLimit(limit))
	client.Balance = balance
	require.NoError(t, db.Create(client).Error)
	return client
}

func storedBalance(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var client partner.Client
	require.NoError(t, db.First(&client, "id = ?", id).Error)
	return client.Balance
}

func TestClientRepository_AdjustBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()
	client := createCreditClient(t, db, decimal.NewFromInt(1000), decimal.NewFromInt(200))

	require.NoError(t, repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(300)))
	assert.True(t, decimal.NewFromInt(500).Equal(storedBalance(t, db, client.ID)))

	require.NoError(t, repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(-150)))
	assert.True(t, decimal.NewFromInt(350).Equal(storedBalance(t, db, client.ID)))
}

func TestClientRepository_AdjustBalance_GuardsCreditLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()
	client := createCreditClient(t, db, decimal.NewFromInt(1000), decimal.NewFromInt(800))

	// The ceiling is enforced by the UPDATE itself: even a caller holding a
	// stale balance snapshot cannot push the stored counter past the limit.
	err := repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(300))
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", de.Code)
	assert.Contains(t, de.Message, "1000.00")
	assert.Contains(t, de.Message, "800.00")
	assert.True(t, decimal.NewFromInt(800).Equal(storedBalance(t, db, client.ID)))

	// Exactly reaching the limit is allowed.
	require.NoError(t, repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(200)))
	assert.True(t, decimal.NewFromInt(1000).Equal(storedBalance(t, db, client.ID)))
}

func TestClientRepository_AdjustBalance_NegativeDeltaNeverBlocked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()
	client := createCreditClient(t, db, decimal.NewFromInt(500), decimal.NewFromInt(500))

	// A cancellation must go through even when the balance sits at the limit.
	require.NoError(t, repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(-500)))
	assert.True(t, storedBalance(t, db, client.ID).IsZero())
}

func TestClientRepository_AdjustBalance_NoCreditLineSkipsGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()
	client := createCreditClient(t, db, decimal.Zero, decimal.Zero)

	// Denying zero-limit accounts is CheckCredit's job; the store guard only
	// covers accounts with a real credit line.
	require.NoError(t, repo.AdjustBalance(ctx, client.ID, decimal.NewFromInt(50)))
	assert.True(t, decimal.NewFromInt(50).Equal(storedBalance(t, db, client.ID)))
}

func TestClientRepository_AdjustBalance_UnknownClient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	err := repo.AdjustBalance(context.Background(), uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
