// ABOUTME: mDNS discovery of LAN NTP servers
// ABOUTME: Browses _ntp._udp.local and reports candidates on a channel
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/mdns"
)

// serviceType is the DNS-SD service type for NTP servers on the local
// network.
const serviceType = "_ntp._udp"

// Config holds discovery configuration.
type Config struct {
	// QueryTimeout is the per-query wait (default 3s).
	QueryTimeout time.Duration
}

// Server describes a discovered NTP server.
type Server struct {
	Name string
	Host string
	Port int
}

// Manager browses the LAN for NTP servers.
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *Server
}

// NewManager creates a discovery manager.
func NewManager(config Config) *Manager {
	if config.QueryTimeout == 0 {
		config.QueryTimeout = 3 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *Server, 10),
	}
}

// Browse starts searching for NTP servers.
func (m *Manager) Browse() error {
	go m.browseLoop()
	return nil
}

// browseLoop issues mDNS queries until the manager is stopped.
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}
				server := &Server{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered NTP server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: serviceType,
			Domain:  "local",
			Timeout: m.config.QueryTimeout,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers.
func (m *Manager) Servers() <-chan *Server {
	return m.servers
}

// Stop stops the discovery manager.
func (m *Manager) Stop() {
	m.cancel()
}
