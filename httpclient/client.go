package httpclient

import (
	"context"
	"net/url"
	"sync"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/transport"
	"github.com/kbukum/reqkit/transport/nethttp"
	"github.com/kbukum/reqkit/transport/resty"
)

// State is the lifecycle state of one exchange.
type State int

const (
	StateIdle State = iota
	StateExecuting
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Client sends requests through a transport. A Client is safe for
// concurrent use; the requests it sends are not.
type Client struct {
	config    Config
	transport transport.Transport
	log       *logger.Logger
	metrics   *observability.ClientMetrics

	// onState observes state transitions. Nil outside tests.
	onState func(*Request, State)
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport, overriding Config.Transport.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.NewFromEnv("default")
	}
	c.log = c.log.WithComponent("httpclient")

	if c.transport == nil {
		switch cfg.Transport {
		case resty.Name:
			c.transport = resty.New(resty.WithLogger(c.log.WithComponent("resty")))
		default:
			c.transport = nethttp.New()
		}
	}

	if c.metrics == nil {
		m, err := observability.NewClientMetrics(observability.Meter())
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	return c, nil
}

var (
	defaultClient     *Client
	defaultClientOnce sync.Once
)

// Default returns the package client used by Request.Send.
func Default() *Client {
	defaultClientOnce.Do(func() {
		c, err := NewClient(Config{})
		if err != nil {
			panic("httpclient: default client: " + err.Error())
		}
		defaultClient = c
	})
	return defaultClient
}

// Transport returns the client's transport.
func (c *Client) Transport() transport.Transport { return c.transport }

// Send executes req once. Non-2xx responses are returned without error.
// A failure yields no response.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, apperrors.Validation("request is required")
	}
	c.transition(req, StateIdle)

	resp, err := c.execute(ctx, req)
	if err != nil {
		c.transition(req, StateFailed)
		return nil, err
	}
	c.transition(req, StateCompleted)
	return resp, nil
}

func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	c.transition(req, StateExecuting)

	ctx, ex := observability.StartExchange(ctx, c.metrics, c.transport.Name(), req.Method(), redactURL(req.URL()))

	opts, err := req.TransportOptions(c.transport.Capabilities())
	if err != nil {
		return nil, c.fail(ctx, ex, err)
	}
	if opts.Timeout == 0 {
		opts.Timeout = c.config.Timeout
	}
	if !opts.HasHeader("User-Agent") && c.config.UserAgent != "" {
		opts.Headers = append(opts.Headers, "User-Agent: "+c.config.UserAgent)
	}

	c.log.Debug("sending request", logger.Fields(
		logger.FieldMethod, opts.Method,
		logger.FieldURL, redactURL(opts.URL),
		logger.FieldTransport, c.transport.Name(),
	))

	resp := NewResponse()
	result, err := c.transport.Execute(ctx, opts, resp.AppendHeaderLine)
	if err != nil {
		te := transport.Classify(err)
		return nil, c.fail(ctx, ex, apperrors.Transport(te.Code, te.Message).WithCause(err))
	}

	resp.setStatusCode(result.StatusCode)
	resp.SetBody(result.Body, resp.Header("Content-Type"))

	if opts.Accept != "" && opts.Accept != resp.ContentType() {
		return nil, c.fail(ctx, ex, apperrors.ContentTypeMismatch(opts.Accept, resp.ContentType()))
	}

	ex.Succeed(ctx, resp.StatusCode(), resp.ContentType())
	c.log.Debug("request completed", logger.Fields(
		logger.FieldMethod, opts.Method,
		logger.FieldURL, redactURL(opts.URL),
		logger.FieldStatus, resp.StatusCode(),
		logger.FieldContentType, resp.ContentType(),
		logger.FieldDuration, ex.Duration().Milliseconds(),
	))
	return resp, nil
}

func (c *Client) fail(ctx context.Context, ex *observability.Exchange, err error) error {
	ex.Fail(ctx, err)
	c.log.WithError(err).Debug("request failed", logger.Fields(
		logger.FieldMethod, ex.Method,
		logger.FieldURL, ex.URL,
		logger.FieldErrorCode, string(apperrors.CodeOf(err)),
		logger.FieldDuration, ex.Duration().Milliseconds(),
	))
	return err
}

// redactURL masks any password embedded in raw.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

func (c *Client) transition(req *Request, s State) {
	if c.onState != nil {
		c.onState(req, s)
	}
}
