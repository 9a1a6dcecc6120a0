package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nameless-app/users-be/internal/apperrors"
	"github.com/nameless-app/users-be/internal/auth"
	"github.com/nameless-app/users-be/internal/dynamo"
	"github.com/nameless-app/users-be/internal/models"
)

// Store is the single-table access the user service needs.
type Store interface {
	TableExists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, item any, condition string) error
	Get(ctx context.Context, key dynamo.Item, projection []string) (dynamo.Item, error)
	Scan(ctx context.Context, attr, value string) ([]dynamo.Item, error)
	Update(ctx context.Context, key dynamo.Item, sets map[string]any) (dynamo.Item, error)
	Delete(ctx context.Context, key dynamo.Item) (dynamo.Item, error)
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, data models.UserData) (models.User, error)
	GetUser(ctx context.Context, username string) (models.UserInfo, error)
	UpdateUser(ctx context.Context, info models.UserInfo) (models.UserInfo, error)
	DeleteUser(ctx context.Context, username string) (models.UserInfo, error)
}

// UserService provides business logic for user management on top of the
// store. It holds no request-scoped state; concurrent requests share only
// the store handle and the hasher.
type UserService struct {
	store  Store
	hasher *auth.Hasher
	table  string
}

// NewUserService creates a new UserService backed by the given table.
func NewUserService(store Store, hasher *auth.Hasher, table string) *UserService {
	return &UserService{store: store, hasher: hasher, table: table}
}

// checkTable fails fast when the backing table is missing. It runs before
// every operation.
func (s *UserService) checkTable(ctx context.Context) error {
	exists, err := s.store.TableExists(ctx, s.table)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s not found: %w", s.table, apperrors.ErrServiceUnavailable)
	}
	return nil
}

// CreateUser creates a new user, hashing their password and rejecting
// duplicate usernames and emails. The username check runs before the email
// check, so when both collide the username conflict is the one reported.
// The scan-then-put pair is not atomic; the conditional put closes the
// username race, the email race stays best-effort.
func (s *UserService) CreateUser(ctx context.Context, data models.UserData) (models.User, error) {
	if err := s.checkTable(ctx); err != nil {
		return models.User{}, err
	}

	digest, err := s.hasher.HashPassword(data.Password)
	if err != nil {
		return models.User{}, err
	}

	matches, err := s.store.Scan(ctx, models.AttrUsername, data.Username)
	if err != nil {
		return models.User{}, err
	}
	if len(matches) > 0 {
		return models.User{}, fmt.Errorf("username %s already exists: %w", data.Username, apperrors.ErrConflict)
	}

	matches, err = s.store.Scan(ctx, models.AttrEmail, data.Email)
	if err != nil {
		return models.User{}, err
	}
	if len(matches) > 0 {
		return models.User{}, fmt.Errorf("email %s already exists: %w", data.Email, apperrors.ErrConflict)
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: digest,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Age:          data.Age,
	}

	err = s.store.Put(ctx, user, fmt.Sprintf("attribute_not_exists(%s)", models.AttrUsername))
	if errors.Is(err, dynamo.ErrConditionFailed) {
		// A concurrent create won the race between our scan and this put.
		return models.User{}, fmt.Errorf("username %s already exists: %w", data.Username, apperrors.ErrConflict)
	}
	if err != nil {
		return models.User{}, err
	}

	log.Info().Str("username", user.Username).Str("user_id", user.UserID).Msg("User created")
	return user, nil
}

// GetUser retrieves the public view of a user by username.
func (s *UserService) GetUser(ctx context.Context, username string) (models.UserInfo, error) {
	if err := s.checkTable(ctx); err != nil {
		return models.UserInfo{}, err
	}

	item, err := s.store.Get(ctx, dynamo.StringKey(models.AttrUsername, username), []string{
		models.AttrUsername,
		models.AttrEmail,
		models.AttrFirstName,
		models.AttrLastName,
		models.AttrAge,
	})
	if err != nil {
		return models.UserInfo{}, err
	}
	if item == nil {
		return models.UserInfo{}, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}

	var info models.UserInfo
	if err := attributevalue.UnmarshalMap(item, &info); err != nil {
		return models.UserInfo{}, apperrors.NewStoreError("unmarshal item", err)
	}
	return info, nil
}

// UpdateUser replaces a user's email, names and age, keyed by username.
// The username, user_id and password are never touched. Updating an absent
// username is NotFound, never an insert.
func (s *UserService) UpdateUser(ctx context.Context, info models.UserInfo) (models.UserInfo, error) {
	if err := s.checkTable(ctx); err != nil {
		return models.UserInfo{}, err
	}

	item, err := s.store.Update(ctx, dynamo.StringKey(models.AttrUsername, info.Username), map[string]any{
		models.AttrEmail:     info.Email,
		models.AttrFirstName: info.FirstName,
		models.AttrLastName:  info.LastName,
		models.AttrAge:       info.Age,
	})
	if errors.Is(err, dynamo.ErrConditionFailed) {
		return models.UserInfo{}, fmt.Errorf("user %s: %w", info.Username, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.UserInfo{}, err
	}

	var updated models.UserInfo
	if err := attributevalue.UnmarshalMap(item, &updated); err != nil {
		return models.UserInfo{}, apperrors.NewStoreError("unmarshal item", err)
	}
	updated.Username = info.Username
	return updated, nil
}

// DeleteUser removes a user and returns the deleted record's public view.
func (s *UserService) DeleteUser(ctx context.Context, username string) (models.UserInfo, error) {
	if err := s.checkTable(ctx); err != nil {
		return models.UserInfo{}, err
	}

	item, err := s.store.Delete(ctx, dynamo.StringKey(models.AttrUsername, username))
	if err != nil {
		return models.UserInfo{}, err
	}
	if item == nil {
		return models.UserInfo{}, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}

	var deleted models.User
	if err := attributevalue.UnmarshalMap(item, &deleted); err != nil {
		return models.UserInfo{}, apperrors.NewStoreError("unmarshal item", err)
	}

	log.Info().Str("username", username).Msg("User deleted")
	return deleted.Info(), nil
}
