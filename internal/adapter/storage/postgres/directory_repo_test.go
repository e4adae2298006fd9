package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRepo_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT username, account_id FROM federation_directory").
		WillReturnRows(pgxmock.NewRows([]string{"username", "account_id"}).
			AddRow("alice", "GA").
			AddRow("bob", "GB"))

	entries, err := NewDirectoryRepo(mock).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "GA", "bob": "GB"}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepo_Load_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT username").WillReturnError(errors.New("relation does not exist"))

	_, err = NewDirectoryRepo(mock).Load(context.Background())
	assert.Error(t, err)
}

func TestDirectoryRepo_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM federation_directory").WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("INSERT INTO federation_directory").WithArgs("alice", "GA").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO federation_directory").WithArgs("bob", "GB").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = NewDirectoryRepo(mock).Save(context.Background(), map[string]string{"bob": "GB", "alice": "GA"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepo_Save_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM federation_directory").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO federation_directory").WithArgs("alice", "GA").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewDirectoryRepo(mock).Save(context.Background(), map[string]string{"alice": "GA"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "postgres", NewDirectoryRepo(mock).Name())
}
