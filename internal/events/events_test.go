package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp091.Publishing
	exchange  string
	key       string
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	c.exchange, c.key = exchange, key
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func testEvent() *ExpenseCreated {
	return &ExpenseCreated{
		ExpenseID:      "exp-1",
		GroupID:        "grp-1",
		PaidBy:         "alice",
		Amount:         "100.00",
		SplitType:      "EQUAL",
		ParticipantIDs: []string{"alice", "bob", "carol"},
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAMQPPublisher_PublishExpenseCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "splitledger", routingKey: "expense.created"}

	require.NoError(t, p.PublishExpenseCreated(context.Background(), testEvent()))
	require.Len(t, ch.published, 1)

	msg := ch.published[0]
	assert.Equal(t, "splitledger", ch.exchange)
	assert.Equal(t, "expense.created", ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, "exp-1", msg.MessageId)

	decoded, err := ExpenseCreatedFromJSON(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, testEvent(), decoded)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: amqp091.ErrClosed}
	p := &AMQPPublisher{channel: ch, exchange: "splitledger", routingKey: "expense.created"}

	err := p.PublishExpenseCreated(context.Background(), testEvent())
	assert.ErrorIs(t, err, amqp091.ErrClosed)
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.PublishExpenseCreated(context.Background(), testEvent()))
	assert.NoError(t, p.Close())
}
