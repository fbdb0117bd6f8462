package consul

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndDeregister(t *testing.T) {
	var registered consulapi.AgentServiceRegistration
	var deregistered string
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/agent/service/register":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
		case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
			deregistered = strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
		default:
			http.NotFound(w, r)
		}
	}))
	defer agent.Close()

	client, err := NewClient(strings.TrimPrefix(agent.URL, "http://"))
	require.NoError(t, err)

	id, err := RegisterService(client, Registration{Name: "storefront", Host: "10.0.0.5", Port: "3000", HealthPath: "/ping"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "storefront-"))
	assert.Equal(t, id, registered.ID)
	assert.Equal(t, 3000, registered.Port)
	assert.Equal(t, "http://10.0.0.5:3000/ping", registered.Check.HTTP)

	require.NoError(t, Deregister(client, id))
	assert.Equal(t, id, deregistered)
}

func TestRegisterRejectsBadPort(t *testing.T) {
	client, err := NewClient("127.0.0.1:1")
	require.NoError(t, err)
	_, err = RegisterService(client, Registration{Name: "storefront", Port: "http"})
	assert.Error(t, err)
}
