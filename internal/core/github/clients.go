package github

import "sync"

// Clients hands out one shared client per repository. The cache is
// append-only: a client, once created, lives for the process.
type Clients struct {
	newClient func(repository string) *Client

	mu      sync.Mutex
	clients map[string]*Client
}

// NewClients creates a cache that builds missing clients with newClient.
func NewClients(newClient func(repository string) *Client) *Clients {
	return &Clients{
		newClient: newClient,
		clients:   make(map[string]*Client),
	}
}

// Get returns the client for a repository, creating it on first use.
func (c *Clients) Get(repository string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, ok := c.clients[repository]
	if !ok {
		client = c.newClient(repository)
		c.clients[repository] = client
	}
	return client
}
