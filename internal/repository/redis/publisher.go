package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/domain"
)

const (
	defaultBoardTTL = time.Hour
	publishTimeout  = 2 * time.Second
	queueSize       = 256
)

// Broker is the part of *redis.Client the publisher needs.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// EventPublisher pushes every game event onto a pub/sub channel and keeps
// the latest board of each game under BoardKey. Events are queued and sent
// by one goroutine in order, so a slow broker never holds up the game.
type EventPublisher struct {
	broker   Broker
	channel  string
	boardTTL time.Duration
	log      *zap.Logger

	queue  chan domain.Event
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func NewEventPublisher(broker Broker, channel string, log *zap.Logger) *EventPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	p := &EventPublisher{
		broker:   broker,
		channel:  channel,
		boardTTL: defaultBoardTTL,
		log:      log,
		queue:    make(chan domain.Event, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// BoardKey is where the latest board of gameID is cached.
func BoardKey(gameID string) string {
	return fmt.Sprintf("connect4:%s:board", gameID)
}

// Observer returns the observer to register on the controller of gameID.
func (p *EventPublisher) Observer(gameID string, rows, columns int) domain.Observer {
	return domain.NewEventRecorder(gameID, rows, columns, p.Publish)
}

// Publish queues ev. When the queue is full or the publisher is closed the
// event is dropped with a warning.
func (p *EventPublisher) Publish(ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.queue <- ev:
	default:
		p.log.Warn("[REDIS] Event queue full, dropping event",
			zap.String("type", string(ev.Type)), zap.String("game_id", ev.GameID))
	}
}

// Close stops accepting events and waits until the queued ones are sent.
func (p *EventPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *EventPublisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		p.deliver(ev)
	}
}

// deliver sends one event. Failures are logged and swallowed.
func (p *EventPublisher) deliver(ev domain.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("[REDIS] Failed to encode event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.broker.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Warn("[REDIS] Publish failed", zap.String("channel", p.channel), zap.Error(err))
	}

	if ev.Board == nil {
		return
	}
	board, err := json.Marshal(ev.Board)
	if err != nil {
		return
	}
	if err := p.broker.Set(ctx, BoardKey(ev.GameID), board, p.boardTTL).Err(); err != nil {
		p.log.Warn("[REDIS] Failed to cache board", zap.String("game_id", ev.GameID), zap.Error(err))
	}
}
