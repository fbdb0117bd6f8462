// Package consul registers the storefront with a Consul agent so other
// services and load balancers can discover it.
package consul

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	consulapi "github.com/hashicorp/consul/api"
)

// Registration is what RegisterService needs to know about this instance.
type Registration struct {
	Name string
	Host string
	Port string
	// HealthPath is polled by the agent, e.g. "/ping".
	HealthPath string
}

func NewClient(addr string) (*consulapi.Client, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return client, nil
}

// RegisterService registers one instance and returns its service id.
func RegisterService(client *consulapi.Client, r Registration) (string, error) {
	port, err := strconv.Atoi(r.Port)
	if err != nil {
		return "", fmt.Errorf("invalid service port %q: %w", r.Port, err)
	}
	id := r.Name + "-" + uuid.NewString()
	reg := &consulapi.AgentServiceRegistration{
		ID:      id,
		Name:    r.Name,
		Address: r.Host,
		Port:    port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", r.Host, port, r.HealthPath),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return "", fmt.Errorf("register %s with consul: %w", r.Name, err)
	}
	return id, nil
}

func Deregister(client *consulapi.Client, id string) error {
	if err := client.Agent().ServiceDeregister(id); err != nil {
		return fmt.Errorf("deregister %s: %w", id, err)
	}
	return nil
}
