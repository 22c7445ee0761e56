package journal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/physiometrics/internal/physio/journal"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Append(t *testing.T) {
	ctx := context.Background()
	rdb, redisMock := redismock.NewClientMock()
	store := journal.NewRedisStore(rdb, nil)

	record := testRecord("serj", 1.04, 963.75, 1650)
	redisMock.ExpectRPush("physio:journal:serj", "07.03.2024;serj;1.04;963.75;1650").SetVal(1)

	require.NoError(t, store.Append(ctx, record))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRedisStore_AppendFailure(t *testing.T) {
	ctx := context.Background()
	rdb, redisMock := redismock.NewClientMock()
	store := journal.NewRedisStore(rdb, nil)

	redisMock.ExpectRPush("physio:journal:serj", "07.03.2024;serj;1.00;1.00;1").SetErr(errors.New("redis down"))

	err := store.Append(ctx, testRecord("serj", 1, 1, 1))
	assert.ErrorIs(t, err, journal.ErrAppendFailed)
	assert.NoError(t, redisMock.ExpectationsWereMet())

	err = store.Append(ctx, testRecord("", 1, 1, 1))
	assert.ErrorIs(t, err, journal.ErrEmptyUserName)
}

func TestRedisStore_QueryByUser(t *testing.T) {
	ctx := context.Background()
	rdb, redisMock := redismock.NewClientMock()
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "skipped"})
	store := journal.NewRedisStore(rdb, skipped)

	redisMock.ExpectLRange("physio:journal:serj", 0, -1).SetVal([]string{
		"07.03.2024;serj;1.04;963.75;1650",
		"broken line",
		"08.03.2024;serj;0.95;;",
	})

	records, err := store.QueryByUser(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, testRecord("serj", 1.04, 963.75, 1650), records[0])
	assert.Equal(t, 8, records[1].Date.Day())
	assert.False(t, records[1].TargetIntake.IsSet())
	assert.Equal(t, 1.0, counterValue(t, skipped))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRedisStore_QueryByUser_Empty(t *testing.T) {
	ctx := context.Background()
	rdb, redisMock := redismock.NewClientMock()
	store := journal.NewRedisStore(rdb, nil)

	redisMock.ExpectLRange("physio:journal:nobody", 0, -1).SetVal([]string{})

	records, err := store.QueryByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, records)

	redisMock.ExpectLRange("physio:journal:serj", 0, -1).SetErr(errors.New("redis down"))
	_, err = store.QueryByUser(ctx, "serj")
	assert.ErrorIs(t, err, journal.ErrQueryFailed)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
