package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"tradedesk/src/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCredentialRepositoryCreateDuplicate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCredentialRepository().WithDB(mockDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "credentials" WHERE user_id = $1 AND exchange_id = $2`)).
		WithArgs(uint(1), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Create(context.Background(), &model.Credential{
		UserID:             1,
		ExchangeID:         1,
		EncryptedAPIKey:    "enc-key",
		EncryptedAPISecret: "enc-secret",
	})
	if !errors.Is(err, ErrCredentialExists) {
		t.Fatalf("expected ErrCredentialExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestCredentialRepositoryFindByIDNotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCredentialRepository().WithDB(mockDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "credentials" WHERE id = $1 AND user_id = $2 ORDER BY "credentials"."id" LIMIT $3`)).
		WithArgs(uint(42), uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 42, 1)
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestCredentialRepositoryUpdateCapabilitiesMissingRow(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCredentialRepository().WithDB(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "credentials" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateCapabilities(context.Background(), 42, 1, model.Capabilities{Spot: true})
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
