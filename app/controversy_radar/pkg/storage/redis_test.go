package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
)

func newRedisMock() (*RedisStore, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "cr:", logger.Discard())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s, mock
}

func TestRedisStore_Save(t *testing.T) {
	s, mock := newRedisMock()
	report := sampleReport()
	body, err := json.Marshal(report)
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectSet("cr:report:p-2025-W1", body, 0).SetVal("OK")
	mock.ExpectZAdd("cr:reports", redis.Z{Score: 1700000000, Member: "p-2025-W1"}).SetVal(1)
	mock.ExpectTxPipelineExec()

	require.NoError(t, s.Save(context.Background(), "p-2025-W1", report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load(t *testing.T) {
	s, mock := newRedisMock()
	want := sampleReport()
	body, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("cr:report:p-2025-W1").SetVal(string(body))
	mock.ExpectGet("cr:report:p-2025-W0").RedisNil()

	got, err := s.Load(context.Background(), "p-2025-W1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = s.Load(context.Background(), "p-2025-W0")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_List(t *testing.T) {
	s, mock := newRedisMock()
	mock.ExpectZRevRange("cr:reports", 0, -1).SetVal([]string{"p-2025-W2", "p-2025-W1"})

	keys, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2025-W2", "p-2025-W1"}, keys)
}

func TestRedisStore_LoadErrorIsPersistenceError(t *testing.T) {
	s, mock := newRedisMock()
	mock.ExpectGet("cr:report:p-2025-W1").SetErr(assert.AnError)

	_, err := s.Load(context.Background(), "p-2025-W1")
	assert.ErrorIs(t, err, ErrPersistence)
}
