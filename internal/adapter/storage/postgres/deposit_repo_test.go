package postgres

import (
	"context"
	"math/big"
	"testing"
	"time"

	"payments-worker/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositColumnNames() []string {
	return []string{"id", "user_id", "amount", "status", "method", "comment", "source_address",
		"invoice_id", "tx_hash", "created_at", "confirmed_at"}
}

func strPtr(s string) *string { return &s }

func TestDepositRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	comment := "TC-7-1700000000000"
	d := &domain.Deposit{
		UserID:  7,
		Amount:  big.NewInt(1_000_000_000),
		Status:  domain.DepositStatusCreated,
		Method:  domain.DepositMethodTonConnect,
		Comment: &comment,
	}
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO deposits").
		WithArgs(int64(7), "1000000000", "created", "tonconnect", d.Comment, d.SourceAddress, d.InvoiceID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), createdAt))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), tx, d))
	assert.Equal(t, int64(5), d.ID)
	assert.Equal(t, createdAt, d.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	invoiceID := int64(900)

	mock.ExpectQuery("SELECT .+ FROM deposits WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(depositColumnNames()).AddRow(
			int64(5), int64(7), "2500000000", "active", "cryptobot", (*string)(nil), (*string)(nil),
			&invoiceID, (*string)(nil), now, (*time.Time)(nil),
		))

	d, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, domain.DepositStatusActive, d.Status)
	assert.Equal(t, domain.DepositMethodCryptoBot, d.Method)
	assert.Equal(t, "2500000000", d.Amount.String())
	require.NotNil(t, d.InvoiceID)
	assert.Equal(t, int64(900), *d.InvoiceID)
	assert.Nil(t, d.ConfirmedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM deposits WHERE id").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(depositColumnNames()))

	d, err := repo.GetByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, d)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_ListPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(depositColumnNames()).
		AddRow(int64(1), int64(7), "1000000000", "sent", "tonconnect", strPtr("TC-7-1"), strPtr("EQsender"),
			(*int64)(nil), (*string)(nil), now, (*time.Time)(nil)).
		AddRow(int64(2), int64(8), "500000000", "created", "tonconnect", strPtr("TC-8-1"), (*string)(nil),
			(*int64)(nil), (*string)(nil), now, (*time.Time)(nil))

	mock.ExpectQuery("SELECT .+ FROM deposits\\s+WHERE method = \\$1 AND status = ANY\\(\\$2\\)").
		WithArgs("tonconnect", []string{"created", "sent"}, 50).
		WillReturnRows(rows)

	deposits, err := repo.ListPending(context.Background(), domain.DepositMethodTonConnect,
		[]domain.DepositStatus{domain.DepositStatusCreated, domain.DepositStatusSent}, 50)
	require.NoError(t, err)
	require.Len(t, deposits, 2)
	assert.Equal(t, int64(1), deposits[0].ID)
	assert.Equal(t, "EQsender", *deposits[0].SourceAddress)
	assert.Nil(t, deposits[1].SourceAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_SetSourceAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)

	mock.ExpectExec("UPDATE deposits SET source_address").
		WithArgs("EQsender", int64(1), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE deposits SET source_address").
		WithArgs("EQsender", int64(1), int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.SetSourceAddress(context.Background(), 1, 7, "EQsender")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetSourceAddress(context.Background(), 1, 8, "EQsender")
	require.NoError(t, err)
	assert.False(t, ok, "another user must not be able to claim the deposit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_AttachInvoice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)

	mock.ExpectExec("UPDATE deposits SET invoice_id").
		WithArgs(int64(900), int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.AttachInvoice(context.Background(), 5, 900)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_MarkConfirmed(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"transitions non-terminal deposit", 1, true},
		{"already terminal", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewDepositRepo(mock)
			hash := "abc"

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE deposits SET status = 'confirmed'.+status NOT IN \\('confirmed', 'failed'\\)").
				WithArgs(pgxmock.AnyArg(), &hash, int64(5)).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			tx, err := mock.Begin(context.Background())
			require.NoError(t, err)

			changed, err := repo.MarkConfirmed(context.Background(), tx, 5, &hash, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDepositRepo_MarkConfirmed_TransferAlreadyCredited(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	hash := "abc"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE deposits SET status = 'confirmed'").
		WithArgs(pgxmock.AnyArg(), &hash, int64(6)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_deposits_tx_hash"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	changed, err := repo.MarkConfirmed(context.Background(), tx, 6, &hash, time.Now())
	assert.False(t, changed)
	assert.ErrorIs(t, err, domain.ErrTransferAlreadyCredited)
}

func TestDepositRepo_MarkFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)

	mock.ExpectExec("UPDATE deposits SET status = 'failed'").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkFailed(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
