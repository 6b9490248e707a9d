package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/acme/nuvia-dialer/internal/config"
	"github.com/acme/nuvia-dialer/internal/domain"
	"github.com/acme/nuvia-dialer/internal/queue"
	relaysvc "github.com/acme/nuvia-dialer/internal/service/relay"
	"github.com/acme/nuvia-dialer/internal/stream"
	"github.com/acme/nuvia-dialer/internal/telephony"
	"github.com/acme/nuvia-dialer/internal/telephony/five9"
	"github.com/acme/nuvia-dialer/internal/telephony/mock"
	"github.com/acme/nuvia-dialer/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	Kafka *queue.Kafka

	provider  telephony.Provider
	publisher queue.Publisher

	// lazily initialised components
	components struct {
		once     sync.Once
		services *services
		emitter  *stream.Emitter
		err      error
	}
}

type services struct {
	Relay *relaysvc.Service
}

// Option overrides a container dependency.
type Option func(*Container)

// WithProvider replaces the Five9 client.
func WithProvider(p telephony.Provider) Option {
	return func(c *Container) { c.provider = p }
}

// WithPublisher replaces the activity publisher.
func WithPublisher(p queue.Publisher) Option {
	return func(c *Container) { c.publisher = p }
}

// Build constructs a container for the given configuration path.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	return New(cfg, lg)
}

// New constructs a container from an already loaded configuration.
func New(cfg *config.Config, lg *logger.Logger, opts ...Option) (*Container, error) {
	if lg == nil {
		lg = logger.NewNop()
	}
	container := &Container{Config: cfg, Logger: lg}
	for _, opt := range opts {
		opt(container)
	}

	if container.provider == nil {
		if cfg.Five9.Provider == config.ProviderMock {
			lg.Warn("using simulated vendor; no Five9 calls will be made")
			container.provider = mock.NewProvider(cfg.Five9.Mock)
		} else {
			container.provider = five9.NewClient(cfg.Five9)
		}
	}

	if container.publisher == nil {
		if cfg.Kafka.Enabled() {
			kafka, err := queue.NewKafka(cfg.Kafka)
			if err != nil {
				return nil, fmt.Errorf("bootstrap kafka: %w", err)
			}
			container.Kafka = kafka
			container.publisher = queue.NewActivityPublisher(kafka, cfg.Kafka.ActivityTopic)
		} else {
			container.publisher = queue.NopPublisher{}
		}
	}

	if err := container.init(); err != nil {
		return nil, err
	}
	return container, nil
}

func (c *Container) init() error {
	c.components.once.Do(func() {
		c.components.services = &services{
			Relay: relaysvc.NewService(c.provider, c.publisher, c.Logger),
		}

		lead := domain.Lead{
			LocationID: c.Config.Stream.Lead.LocationID,
			ContactID:  c.Config.Stream.Lead.ContactID,
		}
		emitter, err := stream.NewEmitter(stream.DefaultCycle(lead, c.Config.Stream.StageLabel), c.Config.Stream.Unit)
		if err != nil {
			c.components.err = fmt.Errorf("bootstrap stream: %w", err)
			return
		}
		c.components.emitter = emitter
	})
	return c.components.err
}

// Services exposes initialized services.
func (c *Container) Services() *services {
	return c.components.services
}

// Emitter exposes the stream emitter shared by all connections. It holds no
// per-connection state.
func (c *Container) Emitter() *stream.Emitter {
	return c.components.emitter
}

// Provider exposes the vendor API client.
func (c *Container) Provider() telephony.Provider {
	return c.provider
}

// Publisher exposes the activity publisher.
func (c *Container) Publisher() queue.Publisher {
	return c.publisher
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("activity publisher close: %w", err))
		}
	}
	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
