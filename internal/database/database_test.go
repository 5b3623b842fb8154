package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertInboundMessage(t *testing.T) {
	db := testDB(t)

	msg := &InboundMessage{
		MessageSid: "SM123",
		From:       "+15550001",
		To:         "+15550002",
		Body:       "Hello",
	}
	require.NoError(t, db.InsertInboundMessage(msg))
	assert.NotZero(t, msg.ID)

	messages, err := db.RecentMessages(10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Body)
	assert.Equal(t, "SM123", messages[0].MessageSid)
}

func TestInsertCallEvent(t *testing.T) {
	db := testDB(t)

	event := &CallEvent{
		CallSid: "CA123",
		From:    "+15550001",
		To:      "+15550002",
		Status:  "ringing",
	}
	require.NoError(t, db.InsertCallEvent(event))
	assert.NotZero(t, event.ID)
}

func TestDeliveryUpdates(t *testing.T) {
	db := testDB(t)

	for _, status := range []string{"queued", "sent", "delivered"} {
		require.NoError(t, db.InsertDeliveryUpdate(&DeliveryUpdate{
			MessageSid: "SM123",
			Status:     status,
		}))
	}
	require.NoError(t, db.InsertDeliveryUpdate(&DeliveryUpdate{
		MessageSid: "SM999",
		Status:     "failed",
	}))

	updates, err := db.DeliveryUpdates("SM123")
	require.NoError(t, err)
	require.Len(t, updates, 3)
	assert.Equal(t, "queued", updates[0].Status)
	assert.Equal(t, "delivered", updates[2].Status)
}

func TestGetStats(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.InsertInboundMessage(&InboundMessage{Body: "hi"}))
	require.NoError(t, db.InsertInboundMessage(&InboundMessage{Body: "ho"}))
	require.NoError(t, db.InsertCallEvent(&CallEvent{CallSid: "CA1", Status: "completed"}))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MessagesReceived)
	assert.Equal(t, 1, stats.CallsReceived)
	assert.Equal(t, 0, stats.DeliveryUpdates)
}

func TestHealthCheck(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, db.HealthCheck())
}
