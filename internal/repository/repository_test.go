package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// These tests pin down the SQLSTATE-to-domain-error translation: the service
// layer matches on domain sentinels, so the mapping from driver errors is the
// contract the repositories must hold.

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, Message: "mocked"}
}

func TestUserRepositoryErrorTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email maps to ErrEmailAlreadyExists", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(pgError("23505"))
		mock.ExpectRollback()

		err := repo.Create(ctx, &model.User{Email: "dup@example.com", Name: "Dup", Role: model.RolePatient})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are not swallowed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(pgError("53300"))
		mock.ExpectRollback()

		err := repo.Create(ctx, &model.User{Email: "x@example.com", Name: "X", Role: model.RolePatient})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})
}

func TestReviewRepositoryDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewReviewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "reviews"`).WillReturnError(pgError("23505"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Review{
		TherapistID: uuid.New(),
		PatientID:   uuid.New(),
		Rating:      5,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryConflict(t *testing.T) {
	ctx := context.Background()
	booking := func() *model.Booking {
		start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		return &model.Booking{
			TherapistID: uuid.New(),
			PatientID:   uuid.New(),
			StartAt:     start,
			EndAt:       start.Add(50 * time.Minute),
			HourlyRate:  12000,
			TotalAmount: 10000,
		}
	}

	t.Run("overlap found by the pre-insert check", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.Create(ctx, booking())
		assert.ErrorIs(t, err, domain.ErrBookingConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusion constraint backstop maps to conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnError(pgError("23P01"))
		mock.ExpectRollback()

		err := repo.Create(ctx, booking())
		assert.ErrorIs(t, err, domain.ErrBookingConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("serialization failure maps to conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "bookings"`).WillReturnError(pgError("40001"))
		mock.ExpectRollback()

		err := repo.Create(ctx, booking())
		assert.ErrorIs(t, err, domain.ErrBookingConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
