package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/pkg/jwt"
)

// UserService manages user accounts and the admin login.
type UserService struct {
	store      database.Store
	ledger     *BookingLedgerService
	jwtService *jwt.Service
	logger     *logrus.Logger
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store database.Store, ledger *BookingLedgerService, jwtService *jwt.Service, logger *logrus.Logger, bcryptCost int) *UserService {
	return &UserService{
		store:      store,
		ledger:     ledger,
		jwtService: jwtService,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// CreateUser stores a new user. A password, when supplied, is hashed
// and provisions a login credential.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		CityID:    req.CityID,
		CreatedAt: s.now().UTC(),
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, &models.TransientStoreError{Op: "hash password", Err: err}
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.Insert(ctx, database.ColUsers, user.ID, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User created")

	return user.Sanitized(), nil
}

// UpdateUser applies a profile update.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"name":    strings.TrimSpace(req.Name),
		"email":   strings.ToLower(strings.TrimSpace(req.Email)),
		"cityId":  req.CityID,
		"isAdmin": req.IsAdmin,
	}
	if err := s.store.Update(ctx, database.ColUsers, id, patch); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches one user by id, without the password hash.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	record, err := s.store.Get(ctx, database.ColUsers, id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := record.Decode(&user); err != nil {
		return nil, &models.InvariantViolationError{Reason: "user record " + id + " is not decodable"}
	}
	return user.Sanitized(), nil
}

// ListUsers fetches all users, without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	records, err := s.store.List(ctx, database.ColUsers)
	if err != nil {
		return nil, err
	}
	users, err := decodeAll[models.User](records)
	if err != nil {
		return nil, err
	}
	for i, user := range users {
		users[i] = user.Sanitized()
	}
	return users, nil
}

// DeleteUser purges the user's bookings, then removes the user
// document.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*PurgeResult, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	result, err := s.ledger.PurgeUserBookings(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, database.ColUsers, id); err != nil {
		return result, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  id,
		"deleted":  result.Deleted,
		"detached": result.Detached,
	}).Info("User deleted with booking purge")

	return result, nil
}

// Login checks an email/password pair against the stored hash and
// issues a token pair. Only admin accounts may log in.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("credentials", "email and password are required")
	}

	records, err := s.store.QueryEq(ctx, database.ColUsers, "email", email)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.NewValidationError("credentials", "invalid email or password")
	}

	var user models.User
	if err := records[0].Decode(&user); err != nil {
		return nil, &models.InvariantViolationError{Reason: "user record for " + email + " is not decodable"}
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, models.NewValidationError("credentials", "invalid email or password")
	}
	if !user.IsAdmin {
		return nil, models.NewValidationError("credentials", "account is not an admin")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("Admin logged in")

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Sanitized(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.NewValidationError("refresh_token", "is invalid or expired")
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, models.NewValidationError("credentials", "account is not an admin")
	}

	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
