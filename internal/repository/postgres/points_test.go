package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"rentalops-backend/internal/domain"
)

func TestPointsRepository_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("BalanceAndLedgerMoveTogether", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewPointsRepository(db)

		bookingID := int32(1)
		e := &domain.PointsLedgerEntry{CustomerID: 3, BookingID: &bookingID, Type: domain.PointsTypeEarn, Delta: 1000}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE customers SET points_balance").
			WithArgs(e.Delta, sqlmock.AnyArg(), e.CustomerID).
			WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(1000))
		mock.ExpectQuery("INSERT INTO points_ledger_entries").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectCommit()

		err = repo.Apply(ctx, e)
		assert.NoError(t, err)
		assert.Equal(t, int32(1000), e.BalanceAfter)
		assert.Equal(t, int32(5), e.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEarnRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewPointsRepository(db)

		bookingID := int32(1)
		e := &domain.PointsLedgerEntry{CustomerID: 3, BookingID: &bookingID, Type: domain.PointsTypeEarn, Delta: 1000}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE customers SET points_balance").
			WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(2000))
		mock.ExpectQuery("INSERT INTO points_ledger_entries").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err = repo.Apply(ctx, e)
		assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverdraftRejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewPointsRepository(db)

		e := &domain.PointsLedgerEntry{CustomerID: 3, Type: domain.PointsTypeRedeem, Delta: -5000}

		// The points_balance >= 0 check rejects the UPDATE outright.
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE customers SET points_balance").
			WillReturnError(&pq.Error{Code: "23514"})
		mock.ExpectRollback()

		err = repo.Apply(ctx, e)
		assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewPointsRepository(db)

		e := &domain.PointsLedgerEntry{CustomerID: 99, Type: domain.PointsTypeAdjust, Delta: 100}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE customers SET points_balance").
			WillReturnRows(sqlmock.NewRows([]string{"points_balance"}))
		mock.ExpectRollback()

		err = repo.Apply(ctx, e)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPointsRepository_SumDeltasForBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPointsRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM points_ledger_entries`).
		WithArgs(int32(3), int32(1), domain.PointsTypeEarn).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1000))

	sum, err := repo.SumDeltasForBooking(context.Background(), 3, 1, domain.PointsTypeEarn)
	assert.NoError(t, err)
	assert.Equal(t, int32(1000), sum)
}
