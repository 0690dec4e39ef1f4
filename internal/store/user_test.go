// File: internal/store/user_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==7 → GetUserByID / GetUserByEmail
// 2) len(dest)==2 → CreateUser (id, created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 7:
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*bool) = u.IsStaff
		*dest[5].(*bool) = u.IsSuperuser
		*dest[6].(*time.Time) = u.CreatedAt
	case 2:
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

/* ---------- 完整測試 ---------- */

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := &model.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		IsStaff:      true,
		IsSuperuser:  true,
		CreatedAt:    now,
	}

	t.Run("GetUserByID success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, sample.Email, u.Email)
		require.True(t, u.IsSuperuser)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		u, err := GetUserByID(context.Background(), db, 999)
		require.ErrorIs(t, err, pgx.ErrNoRows)
		require.Nil(t, u)
	})

	t.Run("GetUserByEmail success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
	})

	t.Run("CreateUser success", func(t *testing.T) {
		newUser := &model.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "pwdhash"}
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				u := *newUser
				u.ID = 42
				u.CreatedAt = now.Add(time.Hour)
				return &fakeUserRow{user: &u}
			},
		}
		created, err := CreateUser(context.Background(), db, newUser)
		require.NoError(t, err)
		require.Equal(t, 42, created.ID)
	})

	t.Run("CreateSuperuser sets both flags", func(t *testing.T) {
		var gotStaff, gotSuper any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotStaff = args[3]
				gotSuper = args[4]
				return &fakeUserRow{user: sample}
			},
		}
		u, err := CreateSuperuser(context.Background(), db, &model.User{Email: "root@example.com", PasswordHash: "h"})
		require.NoError(t, err)
		require.True(t, u.IsStaff)
		require.True(t, u.IsSuperuser)
		require.Equal(t, true, gotStaff)
		require.Equal(t, true, gotSuper)
	})

	t.Run("UpdateUser", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		require.NoError(t, UpdateUser(context.Background(), db, sample))

		db.ExecFn = func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("boom")
		}
		require.Error(t, UpdateUser(context.Background(), db, sample))
	})

	t.Run("UpdateUserPassword", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		require.NoError(t, UpdateUserPassword(context.Background(), db, 1, "h2"))
	})

	t.Run("DeleteUser", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		}
		require.NoError(t, DeleteUser(context.Background(), db, 1))
	})
}
