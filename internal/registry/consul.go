// Package registry provides Consul-backed service registration and
// discovery, shared by the directory and relay demo services so either
// can find healthy instances of the other and of itself.
package registry

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/consul/api"
)

// ConsulRegistry handles service registration with Consul. Generalized
// from the teacher's single-purpose chat-server registration
// (serviceName and tags are now parameters rather than hardcoded
// "chat-server"/["chat","websocket"]) so both styx-directory and
// styx-relay can register distinct service identities through the same
// type.
type ConsulRegistry struct {
	client      *api.Client
	serviceID   string
	serverID    string
	serverPort  int
	serviceName string
	tags        []string
}

// NewConsulRegistry creates a new Consul registry for a service named
// serviceName (e.g. "styx-directory" or "styx-relay").
func NewConsulRegistry(addr, serviceName, serverID, serverPort string, tags []string) (*ConsulRegistry, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(serverPort)
	if err != nil {
		log.Printf("Warning: Failed to parse server port, using default 8080: %v", err)
		port = 8080
	}

	return &ConsulRegistry{
		client:      client,
		serviceID:   serverID,
		serverID:    serverID,
		serverPort:  port,
		serviceName: serviceName,
		tags:        tags,
	}, nil
}

// Register registers this server with Consul.
func (c *ConsulRegistry) Register() error {
	hostname, err := os.Hostname()
	if err != nil {
		log.Printf("Warning: Failed to get hostname, using localhost: %v", err)
		hostname = "localhost"
	}

	registration := &api.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.serviceName,
		Port:    c.serverPort,
		Address: hostname,
		Tags:    c.tags,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", hostname, c.serverPort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
		Meta: map[string]string{
			"server_id": c.serverID,
		},
	}

	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return err
	}

	log.Printf("registered with consul: %s (%s)", c.serviceID, c.serviceName)
	return nil
}

// Deregister removes this server from Consul.
func (c *ConsulRegistry) Deregister() error {
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		return err
	}

	log.Printf("deregistered from consul: %s", c.serviceID)
	return nil
}

// GetHealthyServers returns all healthy instances of this registry's
// service.
func (c *ConsulRegistry) GetHealthyServers() ([]string, error) {
	services, _, err := c.client.Health().Service(c.serviceName, "", true, nil)
	if err != nil {
		return nil, err
	}

	servers := make([]string, 0, len(services))
	for _, service := range services {
		servers = append(servers, service.Service.ID)
	}
	return servers, nil
}

// WatchServices watches for changes in available instances of this
// registry's service, long-polling Consul's blocking query API.
func (c *ConsulRegistry) WatchServices(callback func([]string)) {
	var lastIndex uint64

	for {
		services, meta, err := c.client.Health().Service(c.serviceName, "", true, &api.QueryOptions{
			WaitIndex: lastIndex,
			WaitTime:  5 * time.Minute,
		})
		if err != nil {
			log.Printf("error watching consul services: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if meta.LastIndex != lastIndex {
			lastIndex = meta.LastIndex

			servers := make([]string, 0, len(services))
			for _, service := range services {
				servers = append(servers, service.Service.ID)
			}
			callback(servers)
		}
	}
}
