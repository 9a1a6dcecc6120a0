package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nameless-app/users-be/internal/apperrors"
	"github.com/nameless-app/users-be/internal/auth"
	"github.com/nameless-app/users-be/internal/dynamo"
	"github.com/nameless-app/users-be/internal/models"
)

// fakeStore is a tiny in-memory stand-in for the DynamoDB client, keyed by
// username like the real table.
type fakeStore struct {
	missingTable bool
	items        map[string]dynamo.Item
	beforePut    func() // runs between the uniqueness scans and the put
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]dynamo.Item{}}
}

func stringAttr(item dynamo.Item, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeStore) TableExists(_ context.Context, _ string) (bool, error) {
	return !f.missingTable, nil
}

func (f *fakeStore) Put(_ context.Context, item any, condition string) error {
	if f.beforePut != nil {
		f.beforePut()
		f.beforePut = nil
	}
	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	username := stringAttr(attrs, models.AttrUsername)
	if condition != "" {
		if _, exists := f.items[username]; exists {
			return dynamo.ErrConditionFailed
		}
	}
	f.items[username] = attrs
	return nil
}

func (f *fakeStore) Get(_ context.Context, key dynamo.Item, projection []string) (dynamo.Item, error) {
	item, ok := f.items[stringAttr(key, models.AttrUsername)]
	if !ok {
		return nil, nil
	}
	if len(projection) == 0 {
		return item, nil
	}
	projected := dynamo.Item{}
	for _, attr := range projection {
		if v, ok := item[attr]; ok {
			projected[attr] = v
		}
	}
	return projected, nil
}

func (f *fakeStore) Scan(_ context.Context, attr, value string) ([]dynamo.Item, error) {
	var matches []dynamo.Item
	for _, item := range f.items {
		if stringAttr(item, attr) == value {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

func (f *fakeStore) Update(_ context.Context, key dynamo.Item, sets map[string]any) (dynamo.Item, error) {
	item, ok := f.items[stringAttr(key, models.AttrUsername)]
	if !ok {
		return nil, dynamo.ErrConditionFailed
	}
	for attr, value := range sets {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, err
		}
		item[attr] = av
	}
	return item, nil
}

func (f *fakeStore) Delete(_ context.Context, key dynamo.Item) (dynamo.Item, error) {
	username := stringAttr(key, models.AttrUsername)
	item, ok := f.items[username]
	if !ok {
		return nil, nil
	}
	delete(f.items, username)
	return item, nil
}

func newTestService(store Store) *UserService {
	return NewUserService(store, auth.NewHasher(bcrypt.MinCost), "users")
}

func marioData() models.UserData {
	return models.UserData{
		Username:  "Mario64",
		Email:     "mario64@example.com",
		Password:  "password123",
		FirstName: "Mario",
		LastName:  "Bros",
		Age:       25,
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and hashes", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		user, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		_, err = uuid.Parse(user.UserID)
		assert.NoError(t, err, "user_id must be a generated UUID")
		assert.Equal(t, "Mario64", user.Username)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, auth.NewHasher(bcrypt.MinCost).CheckPassword("password123", user.PasswordHash))

		// The stored record carries the digest, never the plaintext.
		stored := store.items["Mario64"]
		assert.Equal(t, user.PasswordHash, stringAttr(stored, models.AttrPassword))
	})

	t.Run("create then get returns the same view", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		created, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		info, err := svc.GetUser(ctx, created.Username)
		require.NoError(t, err)
		assert.Equal(t, created.Info(), info)
	})

	t.Run("duplicate username conflicts without writing", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		dup := marioData()
		dup.Email = "other@example.com"
		_, err = svc.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "username")
		assert.Len(t, store.items, 1)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		dup := marioData()
		dup.Username = "Luigi"
		_, err = svc.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("username conflict reported before email conflict", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, marioData())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "username")
	})

	t.Run("racing create is caught by the conditional put", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		// A rival request lands after our uniqueness scans pass.
		store.beforePut = func() {
			rival, err := attributevalue.MarshalMap(models.User{
				UserID:   uuid.NewString(),
				Username: "Mario64",
				Email:    "rival@example.com",
			})
			require.NoError(t, err)
			store.items["Mario64"] = rival
		}

		_, err := svc.CreateUser(ctx, marioData())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, "rival@example.com", stringAttr(store.items["Mario64"], models.AttrEmail))
	})

	t.Run("missing table fails fast", func(t *testing.T) {
		store := newFakeStore()
		store.missingTable = true
		svc := newTestService(store)

		_, err := svc.CreateUser(ctx, marioData())
		assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the public view only", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		info, err := svc.GetUser(ctx, "Mario64")
		require.NoError(t, err)
		assert.Equal(t, models.UserInfo{
			Username:  "Mario64",
			Email:     "mario64@example.com",
			FirstName: "Mario",
			LastName:  "Bros",
			Age:       25,
		}, info)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.GetUser(ctx, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("updates profile fields, never identity or credentials", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		created, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		updated, err := svc.UpdateUser(ctx, models.UserInfo{
			Username:  "Mario64",
			Email:     "supermario@example.com",
			FirstName: "Marius",
			LastName:  "Brossi",
			Age:       26,
		})
		require.NoError(t, err)
		assert.Equal(t, "Mario64", updated.Username)
		assert.Equal(t, "supermario@example.com", updated.Email)
		assert.Equal(t, 26, updated.Age)

		stored := store.items["Mario64"]
		assert.Equal(t, created.PasswordHash, stringAttr(stored, models.AttrPassword))
		assert.Equal(t, created.UserID, stringAttr(stored, models.AttrUserID))
	})

	t.Run("absent username is not found, not an insert", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)

		_, err := svc.UpdateUser(ctx, models.UserInfo{
			Username:  "ghost",
			Email:     "ghost@example.com",
			FirstName: "Ghost",
			LastName:  "User",
			Age:       30,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, store.items)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record and returns its view", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		created, err := svc.CreateUser(ctx, marioData())
		require.NoError(t, err)

		info, err := svc.DeleteUser(ctx, "Mario64")
		require.NoError(t, err)
		assert.Equal(t, created.Info(), info)

		_, err = svc.GetUser(ctx, "Mario64")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("absent username is not found", func(t *testing.T) {
		svc := newTestService(newFakeStore())

		_, err := svc.DeleteUser(ctx, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
