package initialization

import (
	"net/http"

	"github.com/flowbaker/filevault/internal/config"
	"github.com/flowbaker/filevault/internal/filter"
	"github.com/flowbaker/filevault/internal/managers"
	"github.com/flowbaker/filevault/internal/notify"
	"github.com/flowbaker/filevault/internal/session"
	"github.com/flowbaker/filevault/internal/version"
	"github.com/flowbaker/filevault/pkg/clients/filevault"
	"github.com/flowbaker/filevault/pkg/domain"

	"github.com/rs/zerolog/log"
)

// Container wires the client, managers and session state from one configuration.
type Container struct {
	config      *config.Config
	client      *filevault.Client
	fileManager domain.FileManager
	evaluator   *filter.Evaluator
}

type ContainerOption func(*containerOptions)

type containerOptions struct {
	clientOptions []filevault.ClientOption
}

// WithClientOptions appends options applied after the configured ones.
func WithClientOptions(options ...filevault.ClientOption) ContainerOption {
	return func(o *containerOptions) {
		o.clientOptions = append(o.clientOptions, options...)
	}
}

func NewContainer(cfg *config.Config, options ...ContainerOption) *Container {
	opts := &containerOptions{}
	for _, option := range options {
		option(opts)
	}

	clientOptions := []filevault.ClientOption{
		filevault.WithBaseURL(cfg.APIBaseURL),
		filevault.WithTimeout(cfg.Timeout),
		filevault.WithRetry(cfg.RetryAttempts, cfg.RetryDelay),
		filevault.WithTransport(newTransport(cfg)),
		filevault.WithUserAgent(version.UserAgent()),
	}
	clientOptions = append(clientOptions, opts.clientOptions...)

	client := filevault.NewClient(clientOptions...)

	fileManager := managers.NewFileManager(managers.FileManagerDependencies{
		Client: client,
	})

	log.Debug().Str("api_url", client.BaseURL()).Msg("Container initialized")

	return &Container{
		config:      cfg,
		client:      client,
		fileManager: fileManager,
		evaluator:   filter.NewEvaluator(cfg.FilterCacheSize, cfg.FilterCacheTTL),
	}
}

// newTransport keeps one idle connection per concurrent upload worker.
func newTransport(cfg *config.Config) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = max(cfg.UploadConcurrency, http.DefaultMaxIdleConnsPerHost)
	return transport
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetClient() *filevault.Client {
	return c.client
}

func (c *Container) GetFileManager() domain.FileManager {
	return c.fileManager
}

func (c *Container) GetEvaluator() *filter.Evaluator {
	return c.evaluator
}

// NewSession creates a session reporting to notifier. The caller must Close it.
func (c *Container) NewSession(notifier notify.Notifier) *session.Session {
	return session.New(session.SessionDependencies{
		FileManager:    c.fileManager,
		Evaluator:      c.evaluator,
		Notifier:       notifier,
		SearchDebounce: c.config.SearchDebounce,
		Concurrency:    c.config.UploadConcurrency,
	})
}
