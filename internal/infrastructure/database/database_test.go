package database

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestConnectClosesPoolOnPingFailure(t *testing.T) {
	t.Parallel()

	var created, closed atomic.Int32
	monitor := &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.PoolCreated:
				created.Add(1)
			case event.PoolClosedEvent:
				closed.Add(1)
			}
		},
	}

	// nothing listens on port 1
	db, err := connect(Config{
		URI:               "mongodb://127.0.0.1:1",
		DBName:            TestDBName,
		ConnectionTimeout: 200,
		QueryTimeout:      200,
	}, options.Client().SetPoolMonitor(monitor))
	require.Error(t, err)
	assert.Nil(t, db)

	assert.Positive(t, created.Load())
	assert.Equal(t, created.Load(), closed.Load(), "every pool opened by a failed connect must be closed")
}
