package repositories_test

import (
	"testing"

	"grocer/internal/models"
	"grocer/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func countDefaults(t *testing.T, repo *repositories.GORMAddressRepository, userID uint, addrType models.AddressType) int {
	t.Helper()
	list, err := repo.ListByUser(userID)
	assert.NoError(t, err)
	n := 0
	for _, a := range list {
		if a.Type == addrType && a.IsDefault {
			n++
		}
	}
	return n
}

func testAddress(userID uint, addrType models.AddressType, isDefault bool) *models.Address {
	return &models.Address{
		UserID:     userID,
		Type:       addrType,
		IsDefault:  isDefault,
		Street:     "12 Analytical Lane",
		PostalCode: "1018",
		City:       "Amsterdam",
		Country:    "NL",
	}
}

func TestGORMAddressRepository_SingleDefaultPerType(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAddressRepository(db)

	first := testAddress(7, models.AddressShipping, true)
	assert.NoError(t, repo.Create(first))

	// Creating a second default demotes the first
	second := testAddress(7, models.AddressShipping, true)
	assert.NoError(t, repo.Create(second))
	assert.Equal(t, 1, countDefaults(t, repo, 7, models.AddressShipping))

	def, err := repo.GetDefault(7, models.AddressShipping)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	// A billing default does not interfere with the shipping default
	billing := testAddress(7, models.AddressBilling, true)
	assert.NoError(t, repo.Create(billing))
	assert.Equal(t, 1, countDefaults(t, repo, 7, models.AddressShipping))
	assert.Equal(t, 1, countDefaults(t, repo, 7, models.AddressBilling))

	// Nor does another user's default
	other := testAddress(8, models.AddressShipping, true)
	assert.NoError(t, repo.Create(other))
	def, err = repo.GetDefault(7, models.AddressShipping)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
}

func TestGORMAddressRepository_SetDefault(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAddressRepository(db)

	first := testAddress(7, models.AddressShipping, true)
	second := testAddress(7, models.AddressShipping, false)
	assert.NoError(t, repo.Create(first))
	assert.NoError(t, repo.Create(second))

	promoted, err := repo.SetDefault(second.ID, 7)
	assert.NoError(t, err)
	assert.True(t, promoted.IsDefault)
	assert.Equal(t, 1, countDefaults(t, repo, 7, models.AddressShipping))

	def, err := repo.GetDefault(7, models.AddressShipping)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	// Promoting an address of another user fails
	_, err = repo.SetDefault(second.ID, 8)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGORMAddressRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAddressRepository(db)

	addr := testAddress(7, models.AddressShipping, false)
	assert.NoError(t, repo.Create(addr))
	assert.NoError(t, repo.Delete(addr.ID))

	err := repo.Delete(addr.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGORMAddressRepository_GetDefault_None(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAddressRepository(db)

	_, err := repo.GetDefault(7, models.AddressShipping)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no default")
}
