package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO password_resets`).
		WithArgs("alice@example.com", "code-hash", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPasswordResetRepository(db).Create(context.Background(), "alice@example.com", "code-hash", expires)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepository_Consume(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    bool
		wantErr bool
	}{
		{
			name: "matching code is deleted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`DELETE FROM password_resets`).
					WithArgs("alice@example.com", "code-hash").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reset-1"))
			},
			want: true,
		},
		{
			name: "no matching code",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`DELETE FROM password_resets`).
					WithArgs("alice@example.com", "code-hash").
					WillReturnError(sql.ErrNoRows)
			},
			want: false,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`DELETE FROM password_resets`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewPasswordResetRepository(db).Consume(ctx, "alice@example.com", "code-hash")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
