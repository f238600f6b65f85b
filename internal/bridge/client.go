// Package bridge is a small v1 REST client that moves model entities to and from a Hue bridge.
package bridge

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/placeholder"
	"github.com/dokzlo13/huemodel/internal/types"
)

// Options tunes a Client. Zero values get defaults.
type Options struct {
	Timeout      time.Duration
	RateLimitRPS float64
	// Registerer receives the request metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Factory materialises entities; nil means model.NewDefaultFactory().
	Factory *model.Factory
}

// Client talks to the v1 API of one bridge
type Client struct {
	address    string
	username   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	factory    *model.Factory
	metrics    *metrics
}

// NewClient creates a client for the bridge at address using an authorised username.
// address may carry a scheme; plain hosts are reached over http.
func NewClient(address, username string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.Factory == nil {
		opts.Factory = model.NewDefaultFactory()
	}

	burst := int(opts.RateLimitRPS)
	if burst < 1 {
		burst = 1
	}

	base := address
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	// Bridges serve a self-signed certificate
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Client{
		address:  address,
		username: username,
		baseURL:  strings.TrimRight(base, "/") + "/api/" + username,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst),
		factory: opts.Factory,
		metrics: newMetrics(opts.Registerer),
	}
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Address returns the bridge address
func (c *Client) Address() string {
	return c.address
}

// Factory returns the factory used to build entities from responses.
func (c *Client) Factory() *model.Factory {
	return c.factory
}

// GetAll fetches every resource of kind. Payloads whose type is not registered, or that fail
// validation, are logged and skipped. Results are ordered by id.
func (c *Client) GetAll(ctx context.Context, kind model.Kind) ([]*model.Entity, error) {
	collection := kind.Collection()
	if collection == "" || kind == model.KindCapabilities {
		return nil, fmt.Errorf("cannot list resources of kind %q", kind)
	}

	var raw map[string]map[string]any
	if err := c.do(ctx, http.MethodGet, collection, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}

	entities := make([]*model.Entity, 0, len(raw))
	for id, payload := range raw {
		e, err := c.build(kind, id, payload)
		if err != nil {
			log.Warn().
				Err(err).
				Str("kind", string(kind)).
				Str("id", id).
				Msg("Skipping resource")
			continue
		}
		entities = append(entities, e)
	}

	sort.Slice(entities, func(i, j int) bool {
		return lessID(entities[i].ID(), entities[j].ID())
	})

	log.Debug().
		Str("kind", string(kind)).
		Int("count", len(entities)).
		Msg("Fetched resources")
	return entities, nil
}

// Get fetches one resource. ref is an entity of the same kind or a raw identifier.
func (c *Client) Get(ctx context.Context, kind model.Kind, ref any) (*model.Entity, error) {
	resolver := placeholder.For(kind)
	if resolver == nil {
		return nil, fmt.Errorf("resources of kind %q have no identifier", kind)
	}
	seg, err := resolver.PathSegment(ref)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := c.do(ctx, http.MethodGet, kind.Collection()+"/"+seg, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", kind, seg, err)
	}
	return c.build(kind, seg, payload)
}

// Capabilities fetches the bridge-wide resource limits.
func (c *Client) Capabilities(ctx context.Context) (*model.Capabilities, error) {
	var payload map[string]any
	if err := c.do(ctx, http.MethodGet, "capabilities", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch capabilities: %w", err)
	}
	e, err := c.factory.CreateFromBridge(model.TagCapabilities, nil, payload)
	if err != nil {
		return nil, err
	}
	caps, _ := model.AsCapabilities(e)
	return caps, nil
}

// SetLightState sends a state to one light.
func (c *Client) SetLightState(ctx context.Context, ref any, state *lightstate.State) error {
	seg, err := placeholder.Light.PathSegment(ref)
	if err != nil {
		return err
	}
	payload, err := state.Payload()
	if err != nil {
		return fmt.Errorf("invalid state for light %s: %w", seg, err)
	}
	if err := c.do(ctx, http.MethodPut, "lights/"+seg+"/state", payload, nil); err != nil {
		return fmt.Errorf("failed to set light %s state: %w", seg, err)
	}

	log.Debug().Str("light", seg).Int("attributes", len(payload)).Msg("Light state set")
	return nil
}

// SetGroupAction sends an action to every light of a group.
func (c *Client) SetGroupAction(ctx context.Context, ref any, state *lightstate.State) error {
	seg, err := placeholder.Group.PathSegment(ref)
	if err != nil {
		return err
	}
	payload, err := state.Payload()
	if err != nil {
		return fmt.Errorf("invalid action for group %s: %w", seg, err)
	}
	if err := c.do(ctx, http.MethodPut, "groups/"+seg+"/action", payload, nil); err != nil {
		return fmt.Errorf("failed to set group %s action: %w", seg, err)
	}

	log.Debug().Str("group", seg).Int("attributes", len(payload)).Msg("Group action set")
	return nil
}

// Update sends the attributes changed since the entity was last populated. On success
// the current attributes become the new baseline.
func (c *Client) Update(ctx context.Context, e *model.Entity) error {
	resolver := placeholder.For(e.Kind())
	if resolver == nil {
		return fmt.Errorf("resources of kind %q cannot be updated", e.Kind())
	}
	seg, err := resolver.PathSegment(e)
	if err != nil {
		return err
	}

	changes := e.Changes()
	if len(changes) == 0 {
		return nil
	}
	// the bridge applies a light's state through its own endpoint
	delete(changes, "state")
	delete(changes, "action")
	if len(changes) == 0 {
		return nil
	}

	if err := c.do(ctx, http.MethodPut, e.Kind().Collection()+"/"+seg, changes, nil); err != nil {
		return fmt.Errorf("failed to update %s: %w", e, err)
	}
	if err := e.Populate(e.WireFormat()); err != nil {
		return fmt.Errorf("failed to refresh %s: %w", e, err)
	}

	log.Info().Str("resource", e.String()).Int("attributes", len(changes)).Msg("Resource updated")
	return nil
}

func (c *Client) build(kind model.Kind, id string, payload map[string]any) (*model.Entity, error) {
	tag, err := model.TagFor(kind, payload)
	if err != nil {
		return nil, err
	}
	return c.factory.CreateFromBridge(tag, id, payload)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resource := strings.SplitN(path, "/", 2)[0]
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.duration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.requests.WithLabelValues(method, resource, "transport_error").Inc()
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.requests.WithLabelValues(method, resource, "transport_error").Inc()
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.requests.WithLabelValues(method, resource, "http_error").Inc()
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if apiErr := parseAPIErrors(data); apiErr != nil {
		c.metrics.requests.WithLabelValues(method, resource, "api_error").Inc()
		return apiErr
	}
	c.metrics.requests.WithLabelValues(method, resource, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// lessID orders numeric ids numerically and everything else as text.
func lessID(a, b any) bool {
	na, aok := types.ToInteger(a)
	nb, bok := types.ToInteger(b)
	if aok && bok {
		return na < nb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// IsNotFound reports whether err is a bridge "resource not available" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
