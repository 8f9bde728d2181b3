package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/ghostshop/internal/port"
	"github.com/nikolayk812/ghostshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type cartStorageSuite struct {
	suite.Suite

	storage   port.CartStorage
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

// entry point to run the tests in the suite
func TestCartStorageSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container tests in short mode")
	}
	suite.Run(t, new(cartStorageSuite))
}

// before all tests in the suite
func (suite *cartStorageSuite) SetupSuite() {
	var err error
	suite.container, suite.pool, err = startPostgres(suite.T().Context())
	suite.Require().NoError(err)

	suite.storage = repository.NewCartStorage(suite.pool)
}

// after all tests in the suite
func (suite *cartStorageSuite) TearDownSuite() {
	suite.NoError(stopPostgres(suite.container, suite.pool))
}

func (suite *cartStorageSuite) TestSetAndGet() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		key       string
		values    [][]byte
		wantError string
	}{
		{
			name:   "set snapshot: ok",
			key:    gofakeit.UUID(),
			values: [][]byte{randomSnapshot()},
		},
		{
			name:   "overwrite snapshot: last write wins",
			key:    gofakeit.UUID(),
			values: [][]byte{randomSnapshot(), randomSnapshot()},
		},
		{
			name:   "set empty array snapshot: ok",
			key:    gofakeit.UUID(),
			values: [][]byte{[]byte(`[]`)},
		},
		{
			name:      "set with empty key: error",
			key:       "",
			values:    [][]byte{randomSnapshot()},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			var err error
			for _, value := range tt.values {
				err = suite.storage.Set(ctx, tt.key, value)
			}
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, ok, err := suite.storage.Get(ctx, tt.key)
			require.NoError(t, err)
			require.True(t, ok)

			// jsonb normalizes whitespace, compare decoded documents
			assert.JSONEq(t, string(tt.values[len(tt.values)-1]), string(got))
		})
	}
}

func (suite *cartStorageSuite) TestGetMissing() {
	t := suite.T()

	got, ok, err := suite.storage.Get(t.Context(), gofakeit.UUID())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	_, _, err = suite.storage.Get(t.Context(), "")
	require.EqualError(t, err, "key is empty")
}

func (suite *cartStorageSuite) TestDelete() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		key         string
		setup       bool
		wantDeleted bool
		wantError   string
	}{
		{
			name:        "delete existing snapshot: ok",
			key:         gofakeit.UUID(),
			setup:       true,
			wantDeleted: true,
		},
		{
			name:        "delete missing snapshot: not found",
			key:         gofakeit.UUID(),
			wantDeleted: false,
		},
		{
			name:      "delete with empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if tt.setup {
				require.NoError(t, suite.storage.Set(ctx, tt.key, randomSnapshot()))
			}

			deleted, err := suite.storage.Delete(ctx, tt.key)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)

			_, ok, err := suite.storage.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func (suite *cartStorageSuite) TestWithTxRollback() {
	t := suite.T()
	ctx := t.Context()
	key := gofakeit.UUID()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txStorage := repository.NewCartStorageWithTx(tx)
	require.NoError(t, txStorage.Set(ctx, key, randomSnapshot()))

	_, ok, err := txStorage.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, tx.Rollback(ctx))

	_, ok, err = suite.storage.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func (suite *cartStorageSuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_snapshots")
	suite.NoError(err)
}

func randomSnapshot() []byte {
	type record struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Image    string  `json:"image"`
		Quantity int     `json:"quantity"`
		Type     string  `json:"type"`
	}

	records := []record{{
		ID:       gofakeit.UUID(),
		Name:     gofakeit.ProductName(),
		Price:    gofakeit.Price(1, 100),
		Image:    gofakeit.URL(),
		Quantity: gofakeit.Number(1, 9),
		Type:     "product",
	}}

	raw, err := json.Marshal(records)
	if err != nil {
		panic(err)
	}
	return raw
}
