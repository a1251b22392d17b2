package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/vault-server/pkg/data/account"
)

func RunTests(t *testing.T, s account.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s account.Store){
		testHappyPath,
		testBatchSave,
		testGetAllByOwner,
		testInvalidRecord,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s account.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		start := time.Now()

		ctx := context.Background()

		expected := &account.Record{
			Address:  "vault",
			Owner:    "token_program",
			Lamports: 2_039_280,
			Data:     []byte("token_account_state"),
		}
		cloned := expected.Clone()

		// Validate the record initially doesn't exist

		_, err := s.GetByAddress(ctx, expected.Address)
		assert.Equal(t, account.ErrNotFound, err)

		// Save the record

		require.NoError(t, s.Save(ctx, expected))
		assert.True(t, expected.Id > 0)
		assert.True(t, expected.LastUpdatedAt.After(start))

		actual, err := s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)

		// Update balance and data

		expected.Lamports = 4_000_000_000
		expected.Data = []byte("updated_state")
		cloned = expected.Clone()

		require.NoError(t, s.Save(ctx, expected))

		actual, err = s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)
	})
}

func testBatchSave(t *testing.T, s account.Store) {
	t.Run("testBatchSave", func(t *testing.T) {
		ctx := context.Background()

		var records []*account.Record
		for i := 0; i < 5; i++ {
			records = append(records, &account.Record{
				Address:  fmt.Sprintf("address%d", i),
				Owner:    "program",
				Lamports: uint64(i) * 100,
				Data:     []byte{byte(i)},
			})
		}

		require.NoError(t, s.Save(ctx, records...))

		for _, expected := range records {
			actual, err := s.GetByAddress(ctx, expected.Address)
			require.NoError(t, err)
			assertEquivalentRecords(t, expected, actual)
		}

		// A batch containing an invalid record is rejected in its entirety

		invalidBatch := []*account.Record{
			{
				Address:  "address0",
				Owner:    "program",
				Lamports: 999,
				Data:     []byte("should_not_land"),
			},
			{
				Address: "",
				Owner:   "program",
			},
		}
		assert.Error(t, s.Save(ctx, invalidBatch...))

		actual, err := s.GetByAddress(ctx, "address0")
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.Lamports)
	})
}

func testGetAllByOwner(t *testing.T, s account.Store) {
	t.Run("testGetAllByOwner", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByOwner(ctx, "program1")
		assert.Equal(t, account.ErrNotFound, err)

		count, err := s.CountByOwner(ctx, "program1")
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Save(ctx, &account.Record{
				Address: fmt.Sprintf("program1_account%d", i),
				Owner:   "program1",
			}))
		}
		require.NoError(t, s.Save(ctx, &account.Record{
			Address: "program2_account",
			Owner:   "program2",
		}))

		actual, err := s.GetAllByOwner(ctx, "program1")
		require.NoError(t, err)
		assert.Len(t, actual, 3)

		count, err = s.CountByOwner(ctx, "program1")
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		count, err = s.CountByOwner(ctx, "program2")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func testInvalidRecord(t *testing.T, s account.Store) {
	t.Run("testInvalidRecord", func(t *testing.T) {
		ctx := context.Background()

		assert.Error(t, s.Save(ctx, &account.Record{Owner: "program"}))
		assert.Error(t, s.Save(ctx, &account.Record{Address: "address"}))
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *account.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.Lamports, obj2.Lamports)
	assert.Equal(t, obj1.Data, obj2.Data)
}
