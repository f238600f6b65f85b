package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/types"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

type fakeBridge struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeBridge) handler(t *testing.T) http.Handler {
	routes := map[string]string{
		"/api/user/lights": `{
			"2": {"name": "Hallway", "type": "Dimmable light", "state": {"on": false, "bri": 1}},
			"10": {"name": "Desk", "type": "Extended color light", "state": {"on": true, "bri": 200, "colormode": "xy", "xy": [0.3, 0.3]}},
			"1": {"name": "Porch", "type": "On/Off plug-in unit", "state": {"on": true}}
		}`,
		"/api/user/groups": `{
			"1": {"name": "Kitchen", "type": "Room", "class": "Kitchen", "lights": ["1", "2"]},
			"2": {"name": "Mystery", "type": "Hologram"}
		}`,
		"/api/user/groups/1":   `{"name": "Kitchen", "type": "Room", "class": "Kitchen", "lights": ["1", "2"]}`,
		"/api/user/sensors/4":  `{"name": "Daylight", "type": "Daylight", "state": {"daylight": true}, "config": {"on": true, "sunriseoffset": 30}}`,
		"/api/user/scenes/abc": `{"name": "Relax", "type": "GroupScene", "group": "1", "lights": ["1", "2"]}`,
		"/api/user/capabilities": `{
			"lights": {"available": 60, "total": 63},
			"rules": {"available": 240, "total": 250}
		}`,
		"/api/user/lights/99": `[{"error": {"type": 3, "address": "/lights/99", "description": "resource, /lights/99, not available"}}]`,
		"/api/bad/lights":     `[{"error": {"type": 1, "address": "/", "description": "unauthorized user"}}]`,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				require.NoError(t, json.Unmarshal(data, &rec.body))
			}
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		if r.Method == http.MethodPut {
			_, _ = w.Write([]byte(`[{"success": {"/ok": true}}]`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeBridge) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, username string) (*Client, *fakeBridge, *prometheus.Registry) {
	fake := &fakeBridge{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	registry := prometheus.NewRegistry()
	client := NewClient(server.URL, username, Options{RateLimitRPS: 1000, Registerer: registry})
	t.Cleanup(func() { _ = client.Close() })
	return client, fake, registry
}

func TestClient_GetAllLights(t *testing.T) {
	client, _, _ := newTestClient(t, "user")

	lights, err := client.GetAll(context.Background(), model.KindLight)
	require.NoError(t, err)
	require.Len(t, lights, 3)

	assert.Equal(t, []any{1, 2, 10}, []any{lights[0].ID(), lights[1].ID(), lights[2].ID()})
	desk, ok := model.AsLight(lights[2])
	require.True(t, ok)
	assert.Equal(t, "Desk", desk.Name())

	status, err := desk.Status()
	require.NoError(t, err)
	assert.Equal(t, 200, status.Bri)
}

func TestClient_GetAllSkipsUnknownTypes(t *testing.T) {
	client, _, _ := newTestClient(t, "user")

	groups, err := client.GetAll(context.Background(), model.KindGroup)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.TagRoom, groups[0].Tag())

	_, err = client.GetAll(context.Background(), model.KindCapabilities)
	assert.Error(t, err)
}

func TestClient_Get(t *testing.T) {
	client, _, _ := newTestClient(t, "user")
	ctx := context.Background()

	room, err := client.Get(ctx, model.KindGroup, "1")
	require.NoError(t, err)
	group, ok := model.AsGroup(room)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, group.Lights())

	sensor, err := client.Get(ctx, model.KindSensor, 4)
	require.NoError(t, err)
	assert.Equal(t, model.TagDaylight, sensor.Tag())

	scene, err := client.Get(ctx, model.KindScene, "abc")
	require.NoError(t, err)
	s, _ := model.AsScene(scene)
	assert.Equal(t, "1", s.Group())

	_, err = client.Get(ctx, model.KindLight, "not-an-id")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestClient_APIErrors(t *testing.T) {
	client, _, registry := newTestClient(t, "user")

	_, err := client.Get(context.Background(), model.KindLight, 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 3, apiErr.Type)
	assert.True(t, IsNotFound(err))

	families, err := registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() != "huesnap_bridge_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == "api_error" {
					found = true
					assert.Equal(t, 1.0, m.GetCounter().GetValue())
				}
			}
		}
	}
	assert.True(t, found, "api_error outcome counted")
}

func TestClient_Unauthorized(t *testing.T) {
	client, _, _ := newTestClient(t, "bad")

	_, err := client.GetAll(context.Background(), model.KindLight)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Capabilities(t *testing.T) {
	client, _, _ := newTestClient(t, "user")

	caps, err := client.Capabilities(context.Background())
	require.NoError(t, err)
	available, total := caps.Available("rules")
	assert.Equal(t, 240, available)
	assert.Equal(t, 250, total)
}

func TestClient_SetLightState(t *testing.T) {
	client, fake, _ := newTestClient(t, "user")

	light, err := model.NewLight(10)
	require.NoError(t, err)

	err = client.SetLightState(context.Background(), light, lightstate.New().On().BriPercent(100))
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/api/user/lights/10/state", req.path)
	assert.Equal(t, map[string]any{"on": true, "bri": 254.0}, req.body)

	err = client.SetLightState(context.Background(), 10, lightstate.New().Effect("sparkle"))
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestClient_SetGroupAction(t *testing.T) {
	client, fake, _ := newTestClient(t, "user")

	err := client.SetGroupAction(context.Background(), 0, lightstate.NewGroup().Scene("abc"))
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "/api/user/groups/0/action", req.path)
	assert.Equal(t, map[string]any{"scene": "abc"}, req.body)
}

func TestClient_UpdateSendsChangesOnly(t *testing.T) {
	client, fake, _ := newTestClient(t, "user")
	ctx := context.Background()

	e, err := client.Get(ctx, model.KindGroup, 1)
	require.NoError(t, err)
	requestsBefore := len(fake.requests)

	require.NoError(t, client.Update(ctx, e))
	assert.Len(t, fake.requests, requestsBefore, "nothing changed, nothing sent")

	group, _ := model.AsGroup(e)
	require.NoError(t, group.SetName("Kitchen & Dining"))
	require.NoError(t, client.Update(ctx, e))

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/api/user/groups/1", req.path)
	assert.Equal(t, map[string]any{"name": "Kitchen & Dining"}, req.body)
	assert.Empty(t, e.Changes())
}
