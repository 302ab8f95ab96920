// Package redisbridge is the Redis-backed collaborator: it publishes to
// pub/sub channels for outbound notifications, and drives inbound
// dispatch by turning LPUSHed commands on well-known list keys into
// controller.Event values via a BRPOP-loop-per-key pattern. The core
// never imports this package or go-redis; wiring happens only in
// cmd/hmi-state-controller.
package redisbridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/librescoot/hmi-state-controller/internal/controller"
	"github.com/librescoot/hmi-state-controller/internal/logger"
)

// Bridge owns a Redis client and the goroutines that keep it fed. It
// implements controller.Notifier directly.
type Bridge struct {
	client *redis.Client
	log    *logger.Logger
	ctrl   *controller.Controller

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Bridge. AttachController must be called before
// StartListening: the two are separate because building the controller
// requires a Notifier, and this Bridge is usually that Notifier.
func New(addr string, log *logger.Logger) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: 0}),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AttachController gives the Bridge the controller its inbound command
// listeners dispatch events to.
func (b *Bridge) AttachController(ctrl *controller.Controller) {
	b.ctrl = ctrl
}

// Connect verifies connectivity to Redis.
func (b *Bridge) Connect() error {
	b.log.Infof("connecting to Redis at %s", b.client.Options().Addr)
	if err := b.client.Ping(b.ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	b.log.Infof("connected to Redis")
	return nil
}

// StartListening spawns one BRPOP loop per inbound command key.
func (b *Bridge) StartListening() {
	commands := map[string]func(string){
		keyVR:                   b.handleVR,
		keyTTS:                  b.handleTTS,
		keyPhoneCall:            b.handlePhoneCall,
		keyEmergency:            b.handleEmergency,
		keyAudioSource:          b.handleAudioSource,
		keyEmbeddedNavi:         b.handleEmbeddedNavi,
		keyDeactivateHMI:        b.handleDeactivateHMI,
		keyVideoStreaming:       b.handleVideoStreaming,
		keyActivateAppResponse:  b.handleActivateAppResponse,
		keyAppActivated:         b.handleAppActivated,
		keyAppDeactivated:       b.handleAppDeactivated,
	}
	for key, handler := range commands {
		b.wg.Add(1)
		go b.listCommandListener(key, handler)
	}
}

// Stop cancels every listener goroutine and waits for them to exit.
func (b *Bridge) Stop() {
	b.cancel()
	b.wg.Wait()
}

func (b *Bridge) listCommandListener(key string, handler func(string)) {
	defer b.wg.Done()
	b.log.Infof("starting command listener for %s", key)
	for {
		select {
		case <-b.ctx.Done():
			return
		default:
		}

		result, err := b.client.BRPop(b.ctx, 5*time.Second, key).Result()
		if err != nil {
			if err == redis.Nil || err == context.Canceled {
				continue
			}
			b.log.Warnf("error reading from %s: %v", key, err)
			continue
		}
		if len(result) < 2 {
			continue
		}
		value := result[1]
		b.log.Debugf("received command from %s: %s", key, value)
		handler(value)
	}
}
