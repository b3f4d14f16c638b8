package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OneTimeCode{},
		&models.EmailToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return New(db)
}

func TestUserEmailLookup_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{Email: "Jane.Doe@Example.COM", Role: "user"}))

	user, err := r.GetUserByEmail(ctx, "jane.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", user.Email)

	same, err := r.GetUserByEmail(ctx, "  JANE.DOE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, same.ID)
}

func TestEnsureUser_ProvisionsOnce(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.EnsureUser(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user", first.Role)
	assert.True(t, first.Verified)
	assert.Nil(t, first.PasswordHash)

	second, err := r.EnsureUser(ctx, "NEW@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReplaceCode_SingleSlot(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.ReplaceCode(ctx, "a@b.com", "111111", time.Minute))
	require.NoError(t, r.ReplaceCode(ctx, "a@b.com", "222222", time.Minute))

	var count int64
	require.NoError(t, r.DB.Model(&models.OneTimeCode{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	row, err := r.GetCode(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", row.Code)
	assert.Equal(t, 0, row.Attempts)
}

func TestIncrementAttempts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.ReplaceCode(ctx, "a@b.com", "111111", time.Minute))
	require.NoError(t, r.IncrementAttempts(ctx, "a@b.com"))
	require.NoError(t, r.IncrementAttempts(ctx, "a@b.com"))

	row, err := r.GetCode(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, row.Attempts)
}

func TestGetCode_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.GetCode(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductImageList_RoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	prod := &models.Product{
		SKU:      "DK-TEST01",
		Name:     "Silk Scarf",
		Price:    45,
		Category: "accessories",
		ImageURLs: models.ImageList{
			"https://cdn.example.com/scarf-front.jpg",
			"https://cdn.example.com/scarf-back.jpg",
		},
	}
	require.NoError(t, r.CreateProduct(ctx, prod))

	got, err := r.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	require.Len(t, got.ImageURLs, 2)
	assert.Equal(t, "https://cdn.example.com/scarf-front.jpg", got.ImageURLs[0])
}

func TestConsumeEmailToken_SingleUse(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	row := &models.EmailToken{
		Token:     "tok-1",
		Email:     "a@b.com",
		Purpose:   "email",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, r.CreateEmailToken(ctx, row))

	got, err := r.ConsumeEmailToken(ctx, "tok-1", "email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)

	_, err = r.ConsumeEmailToken(ctx, "tok-1", "email")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSKUExists(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateProduct(ctx, &models.Product{
		SKU: "DK-AAAA", Name: "Tote", Price: 80, Category: "bags",
	}))

	exists, err := r.SKUExists(ctx, "DK-AAAA")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.SKUExists(ctx, "DK-BBBB")
	require.NoError(t, err)
	assert.False(t, exists)
}
