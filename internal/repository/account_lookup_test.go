package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

func TestAccountDirectoryRoutesByClass(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	dir := NewAccountDirectory(NewCitizenRepository(mock), NewMonitorRepository(mock), NewAdminRepository(mock))
	now := time.Now()

	t.Run("employee claim reads citizen store", func(t *testing.T) {
		mock.ExpectQuery(`FROM citizens c`).
			WithArgs("jane@example.com").
			WillReturnRows(pgxmock.NewRows(citizenRowColumns).
				AddRow(int64(2), "Jane", "jane@example.com", "hash", "female", now, int64(1), "BA", nil, now))

		lookup, err := dir.For(domain.RoleEmployee)
		require.NoError(t, err)
		acct, err := lookup.FindByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCitizen, acct.Role)
	})

	t.Run("monitor claim reads monitor store", func(t *testing.T) {
		mock.ExpectQuery(`FROM government_monitors WHERE email`).
			WithArgs("monitor@gov.in").
			WillReturnRows(pgxmock.NewRows([]string{"monitor_id", "name", "email", "password_hash", "created_at"}).
				AddRow(int64(5), "", "monitor@gov.in", "hash", now))

		lookup, err := dir.For(domain.RoleMonitor)
		require.NoError(t, err)
		acct, err := lookup.FindByEmail(ctx, "monitor@gov.in")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMonitor, acct.Role)
		assert.Equal(t, int64(5), acct.SubjectID)
	})

	t.Run("admin not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM admins WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		lookup, err := dir.For(domain.RoleAdmin)
		require.NoError(t, err)
		_, err = lookup.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("store failure passes through", func(t *testing.T) {
		boom := errors.New("connection reset")
		mock.ExpectQuery(`FROM admins WHERE email`).WillReturnError(boom)

		lookup, _ := dir.For(domain.RoleAdmin)
		_, err := lookup.FindByEmail(ctx, "x@example.com")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := dir.For(domain.Role("government_monitor"))
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
