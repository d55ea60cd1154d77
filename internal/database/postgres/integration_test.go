package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/FlipResolver_Go/internal/database"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/ledger"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testPool, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (*pgxpool.Pool, func()) {
	// Handle potential panics from testcontainers (no Docker available)
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return nil, func() {}
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return nil, terminate
	}

	pool, err := database.NewPool(connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return nil, terminate
	}

	if _, err := database.Migrate(ctx, pool); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return nil, terminate
	}

	return pool, terminate
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return testPool
}

func resetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE composite_consumption, composite_transactions, offers`)
	require.NoError(t, err)
}

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func offer(id string, itemID int, side domain.Side, filled int, price int64, minutes int) domain.Offer {
	return domain.Offer{
		ID: id, ItemID: itemID, Side: side, QuantityFilled: filled, TotalQuantity: filled,
		Price: price, Complete: true, Time: baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestOfferRepository_Integration(t *testing.T) {
	pool := requireDB(t)
	resetTables(t, pool)
	ctx := context.Background()
	repo := NewOfferRepository(pool)

	later := offer("o2", 1163, domain.SideSell, 1, 100, 5)
	earlier := offer("o1", 1163, domain.SideSell, 2, 100, 1)
	other := offer("o3", 1127, domain.SideBuy, 1, 50, 0)
	require.NoError(t, repo.UpsertOffers(ctx, []domain.Offer{later, earlier, other}))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetOfferByID(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, earlier, *got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetOfferByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrOfferNotFound)
	})

	t.Run("list oldest first", func(t *testing.T) {
		got, err := repo.ListOffersByItem(ctx, 1163)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o1", got[0].ID)
		assert.Equal(t, "o2", got[1].ID)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		updated := later
		updated.QuantityFilled = 3
		updated.TotalQuantity = 4
		updated.Complete = false
		require.NoError(t, repo.UpsertOffers(ctx, []domain.Offer{updated}))

		got, err := repo.GetOfferByID(ctx, "o2")
		require.NoError(t, err)
		assert.Equal(t, updated, *got)
	})
}

func TestCompositeRepository_Integration(t *testing.T) {
	pool := requireDB(t)
	resetTables(t, pool)
	ctx := context.Background()
	offers := NewOfferRepository(pool)
	repo := NewCompositeRepository(pool)

	body := offer("body", 1127, domain.SideBuy, 2, 1_000_000, 0)
	legs := offer("legs", 1079, domain.SideBuy, 1, 900_000, 1)
	set := offer("set", 12960, domain.SideSell, 1, 3_000_000, 2)
	require.NoError(t, offers.UpsertOffers(ctx, []domain.Offer{body, legs, set}))

	ct := domain.CompositeTransaction{
		ID:                "c1",
		RecipeName:        "set:12960",
		TriggeringOfferID: "set",
		TriggeringItemID:  12960,
		Instances:         1,
		Profit:            1_070_000,
		CreatedAt:         baseTime,
		Selection: map[int][]domain.PartialOffer{
			12960: {{Offer: set, AmountConsumed: 1}},
			1127:  {{Offer: body, AmountConsumed: 1}},
			1079:  {{Offer: legs, AmountConsumed: 1}},
		},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertComposite(ctx, ct))
	require.NoError(t, tx.Commit(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), repository.ErrTxClosed)

	t.Run("get returns selection", func(t *testing.T) {
		got, err := repo.GetComposite(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, ct, *got)
	})

	t.Run("list by consumed item", func(t *testing.T) {
		got, err := repo.ListCompositesByItem(ctx, 1127)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].ID)

		none, err := repo.ListCompositesByItem(ctx, 4151)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer repository.SafeRollback(ctx, tx)

		err = tx.InsertComposite(ctx, ct)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgDuplicateComposite)
	})

	t.Run("rollback discards", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		dup := ct
		dup.ID = "c2"
		require.NoError(t, tx.InsertComposite(ctx, dup))
		require.NoError(t, tx.Rollback(ctx))

		_, err = repo.GetComposite(ctx, "c2")
		assert.ErrorIs(t, err, domain.ErrCompositeNotFound)
	})

	t.Run("release excludes from sum", func(t *testing.T) {
		sums, err := repo.SumConsumption(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"set": 1, "body": 1, "legs": 1}, sums)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := tx.GetCompositeForUpdate(ctx, "c1")
		require.NoError(t, err)
		assert.False(t, locked.Released())
		require.NoError(t, tx.MarkReleased(ctx, "c1", baseTime.Add(time.Hour)))
		require.NoError(t, tx.Commit(ctx))

		sums, err = repo.SumConsumption(ctx)
		require.NoError(t, err)
		assert.Empty(t, sums)

		got, err := repo.GetComposite(ctx, "c1")
		require.NoError(t, err)
		require.NotNil(t, got.ReleasedAt)
		assert.Equal(t, baseTime.Add(time.Hour), *got.ReleasedAt)
	})

	t.Run("mark released unknown id", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer repository.SafeRollback(ctx, tx)

		assert.ErrorIs(t, tx.MarkReleased(ctx, "nope", baseTime), domain.ErrCompositeNotFound)
	})
}

func TestLedgerReplay_Integration(t *testing.T) {
	pool := requireDB(t)
	resetTables(t, pool)
	ctx := context.Background()
	offers := NewOfferRepository(pool)
	repo := NewCompositeRepository(pool)

	potion := offer("potion", 91, domain.SideSell, 10, 500, 0)
	require.NoError(t, offers.UpsertOffers(ctx, []domain.Offer{potion}))

	first := ledger.New(repo)
	require.NoError(t, first.Commit(ctx, domain.CompositeTransaction{
		ID: "c1", RecipeName: "potion", TriggeringOfferID: "potion", TriggeringItemID: 91,
		Instances: 4, CreatedAt: baseTime,
		Selection: map[int][]domain.PartialOffer{91: {{Offer: potion, AmountConsumed: 4}}},
	}))

	restarted := ledger.New(repo)
	require.NoError(t, restarted.Replay(ctx))

	assert.Equal(t, 4, restarted.Consumed("potion"))
	assert.Equal(t, 6, restarted.Available(potion))
}
