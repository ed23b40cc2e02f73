package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestPublisher(ch *fakeChannel) *Publisher {
	p := newPublisher(ch, "tally.transactions")
	p.now = func() time.Time { return now }

	return p
}

func TestPublisher_TransactionCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	tx := &transaction.Transaction{
		ID:          42,
		Date:        time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Description: "shell gas station",
		Type:        transaction.TypeExpense,
		Amount:      decimal.RequireFromString("61.3"),
		Category:    category.Transportation,
	}

	require.NoError(t, p.TransactionCreated(context.Background(), tx))
	require.Len(t, ch.sent, 1)

	got := ch.sent[0]
	assert.Equal(t, "tally.transactions", got.exchange)
	assert.Equal(t, KeyCreated, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)
	assert.NoError(t, uuid.Validate(got.msg.MessageId))

	msg, err := MessageFromJSON(got.msg.Body)
	require.NoError(t, err)

	assert.Equal(t, KeyCreated, msg.Event)
	assert.Equal(t, int64(42), msg.TransactionID)
	require.NotNil(t, msg.Transaction)
	assert.Equal(t, "2024-02-29", msg.Transaction.Date)
	assert.Equal(t, "61.30", msg.Transaction.Amount)
	assert.Equal(t, "Transportation", msg.Transaction.Category)
	assert.True(t, now.Equal(msg.Timestamp))
}

func TestPublisher_TransactionDeleted(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	require.NoError(t, p.TransactionDeleted(context.Background(), 7))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, KeyDeleted, ch.sent[0].key)

	msg, err := MessageFromJSON(ch.sent[0].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.TransactionID)
	assert.Nil(t, msg.Transaction)
}

func TestPublisher_PublishError(t *testing.T) {
	p := newTestPublisher(&fakeChannel{err: errors.New("channel closed")})

	err := p.TransactionDeleted(context.Background(), 1)
	assert.ErrorContains(t, err, "publish message")
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestPublisher(ch).Close())
	assert.True(t, ch.closed)
}

func TestNoop(t *testing.T) {
	var n Noop

	assert.NoError(t, n.TransactionCreated(context.Background(), &transaction.Transaction{}))
	assert.NoError(t, n.TransactionDeleted(context.Background(), 1))
	assert.NoError(t, n.Close())
}
