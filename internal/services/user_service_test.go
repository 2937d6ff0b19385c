package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/pkg/jwt"
)

func newUserService(store *memStore) *UserService {
	logger := newTestLogger()
	ledger := NewBookingLedgerService(store, logger)
	jwtSvc := jwt.NewService("test-secret-key-that-is-long-enough-123", "rahhal-admin", 15*time.Minute, 24*time.Hour)
	return NewUserService(store, ledger, jwtSvc, logger, bcrypt.MinCost)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newUserService(store)

	t.Run("Without Password", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Name: "Alice", Email: "Alice@Example.com", CityID: "c1",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("With Password Provisions Credential", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Name: "Bob", Email: "bob@example.com", CityID: "c1", Password: "hunter22",
		})
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash, "responses never carry the hash")

		record, err := store.Get(ctx, database.ColUsers, user.ID)
		require.NoError(t, err)
		var stored models.User
		require.NoError(t, record.Decode(&stored))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
	})

	t.Run("Rejects Bad Email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Name: "Eve", Email: "not-an-email", CityID: "c1",
		})
		assert.True(t, models.IsValidation(err))
	})
}

func TestDeleteUserPurgesBookings(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newUserService(store)
	seedTrip(store, "trip-1", 10, 0)
	store.put(database.ColUsers, "u1", &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"})

	ledger := NewBookingLedgerService(store, newTestLogger())
	_, err := ledger.CreateBooking(ctx, &models.CreateBookingRequest{
		UserIDs: []string{"u1"}, TripID: "trip-1", RequestedSeats: 3,
	})
	require.NoError(t, err)

	result, err := svc.DeleteUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	_, err = store.Get(ctx, database.ColUsers, "u1")
	assert.True(t, models.IsNotFound(err))
	assert.Equal(t, 0, storedTrip(t, store, "trip-1").SeatsBooked)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newUserService(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	store.put(database.ColUsers, "admin", &models.User{
		ID: "admin", Name: "Root", Email: "admin@example.com",
		IsAdmin: true, PasswordHash: string(hash),
	})
	store.put(database.ColUsers, "plain", &models.User{
		ID: "plain", Name: "Plain", Email: "plain@example.com",
		PasswordHash: string(hash),
	})

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Empty(t, resp.User.PasswordHash)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Unknown Email", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "s3cret"})
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Non-Admin Rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "plain@example.com", Password: "s3cret"})
		assert.True(t, models.IsValidation(err))
	})
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCatalogService(store, newTestLogger())

	city, err := svc.CreateCity(ctx, &models.CityRequest{Name: "Marrakesh"})
	require.NoError(t, err)

	t.Run("Create And Filter Items", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, database.ColPlaces, &models.CatalogItemRequest{
			Name: "Jemaa el-Fnaa", CityID: city.ID,
		})
		require.NoError(t, err)

		items, err := svc.ListItems(ctx, database.ColPlaces, city.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Jemaa el-Fnaa", items[0].Name)

		none, err := svc.ListItems(ctx, database.ColPlaces, "other-city")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Rejects Unknown Collection", func(t *testing.T) {
		_, err := svc.ListItems(ctx, "gadgets", "")
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Rejects Item For Missing City", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, database.ColHotels, &models.CatalogItemRequest{
			Name: "Nowhere Inn", CityID: "ghost",
		})
		assert.True(t, models.IsNotFound(err))
	})
}
