package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-server/pkg/data/account"
	"github.com/code-payments/vault-server/pkg/data/account/tests"

	pgutil "github.com/code-payments/vault-server/pkg/database/postgres"
	postgrestest "github.com/code-payments/vault-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
	CREATE TABLE vaultserver__core_account (
		id serial NOT NULL PRIMARY KEY,

		address TEXT NOT NULL,
		owner TEXT NOT NULL,

		lamports BIGINT NOT NULL,
		data BYTEA,

		last_updated_at TIMESTAMP WITH TIME ZONE NOT NULL,

		CONSTRAINT vaultserver__core_account__uniq__address UNIQUE (address)
	);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE vaultserver__core_account;
	`
)

var (
	testStore account.Store
	testDb    *sqlx.DB
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		logrus.StandardLogger().WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	testDb = sqlx.NewDb(db, "pgx")
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			logrus.StandardLogger().WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestAccountPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}

func TestAccountPostgresStore_ExecuteTxWithinCtx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		defer teardown()

		ctx := context.Background()

		record := &account.Record{
			Address:  "ctx_tx_address_1",
			Owner:    "ctx_tx_owner",
			Lamports: 42,
		}

		err := pgutil.ExecuteTxWithinCtx(ctx, testDb, sql.LevelDefault, func(ctx context.Context) error {
			return testStore.Save(ctx, record)
		})
		require.NoError(t, err)

		actual, err := testStore.GetByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 42, actual.Lamports)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		defer teardown()

		ctx := context.Background()

		record := &account.Record{
			Address:  "ctx_tx_address_2",
			Owner:    "ctx_tx_owner",
			Lamports: 42,
		}

		err := pgutil.ExecuteTxWithinCtx(ctx, testDb, sql.LevelDefault, func(ctx context.Context) error {
			if err := testStore.Save(ctx, record); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)

		_, err = testStore.GetByAddress(ctx, record.Address)
		assert.Equal(t, account.ErrNotFound, err)
	})
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
