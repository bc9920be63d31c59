package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// TaskMessage is the body published for a dispatched task. Consumers load
// the task row by ID, so the row stays the source of truth.
type TaskMessage struct {
	TaskID    uuid.UUID `json:"task_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Client wraps an AMQP connection with a durable direct exchange and queue.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewClient dials url and declares the exchange and queue.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Declare queue
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Bind queue to exchange
	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return c.channel.Qos(10, 0, false)
}

// Publish sends a task message.
func (c *Client) Publish(ctx context.Context, msg TaskMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    msg.TaskID.String(),
			Type:         msg.Name,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Consume delivers task messages to handler until ctx ends. Messages are
// acked when handler succeeds and requeued when it fails.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, TaskMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming task messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return nil
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}

			var msg TaskMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal task message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle task message",
					"error", err,
					"task_id", msg.TaskID,
				)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publisher is the subset of Client used by the relay.
type Publisher interface {
	Publish(ctx context.Context, msg TaskMessage) error
}

// Relay moves due pending tasks from the outbox to the broker.
type Relay struct {
	tasks        adapter.TaskRepository
	publisher    Publisher
	pollInterval time.Duration
	batchSize    int
	logger       *slog.Logger
	now          func() time.Time
}

// NewRelay creates a new Relay.
func NewRelay(tasks adapter.TaskRepository, publisher Publisher, config WorkerConfig, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Relay{
		tasks:        tasks,
		publisher:    publisher,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start relays tasks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("Outbox relay started",
		"poll_interval", r.pollInterval,
		"batch_size", r.batchSize,
	)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.RelayNow(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay shutting down")
			return nil
		case <-ticker.C:
			r.RelayNow(ctx)
		}
	}
}

// RelayNow publishes one batch of due tasks and returns how many were sent.
// A task whose publish fails goes back to pending.
func (r *Relay) RelayNow(ctx context.Context) int {
	tasks, err := r.tasks.ClaimPending(ctx, r.now(), r.batchSize, entity.TaskStatusDispatched)
	if err != nil {
		r.logger.Error("Failed to claim tasks for relay", "error", err)
		return 0
	}

	sent := 0
	for _, task := range tasks {
		err := r.publisher.Publish(ctx, TaskMessage{
			TaskID:    task.ID,
			Name:      task.Name,
			Timestamp: r.now(),
		})
		if err != nil {
			r.logger.Error("Failed to publish task", "task_id", task.ID, "error", err)
			task.Status = entity.TaskStatusPending
			if updateErr := r.tasks.Update(ctx, task); updateErr != nil {
				r.logger.Error("Failed to release task", "task_id", task.ID, "error", updateErr)
			}
			continue
		}
		sent++
	}

	if sent > 0 {
		r.logger.Debug("Relayed tasks", "count", sent)
	}
	return sent
}

// Consumer executes tasks announced on the broker.
type Consumer struct {
	tasks    adapter.TaskRepository
	executor *Executor
	logger   *slog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(tasks adapter.TaskRepository, executor *Executor, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		tasks:    tasks,
		executor: executor,
		logger:   logger,
	}
}

// Handle executes the task named by msg. Messages for tasks that are no
// longer dispatched are duplicates and are dropped.
func (c *Consumer) Handle(ctx context.Context, msg TaskMessage) error {
	task, err := c.tasks.FindByID(ctx, msg.TaskID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTaskNotFound) {
			c.logger.Warn("Dropping message for unknown task", "task_id", msg.TaskID)
			return nil
		}
		return err
	}

	if task.Status != entity.TaskStatusDispatched {
		c.logger.Debug("Dropping duplicate task message",
			"task_id", task.ID,
			"status", task.Status,
		)
		return nil
	}

	return c.executor.Execute(ctx, task)
}
