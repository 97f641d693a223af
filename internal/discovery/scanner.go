package discovery

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/alexballas/go-ssdp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/controku/internal/device"
	"github.com/muurk/controku/internal/ecp"
	"github.com/muurk/controku/internal/logging"
)

const (
	// DefaultScanTimeout is the default SSDP collection window
	DefaultScanTimeout = 3 * time.Second

	// DefaultQueryTimeout bounds the info query sent to each responder
	DefaultQueryTimeout = 2 * time.Second

	// maxConcurrentQueries limits how many info queries run at once
	maxConcurrentQueries = 8
)

// searchDevices sends the M-SEARCH and blocks for waitSec seconds collecting
// responses. Replaced in tests.
var searchDevices = func(serviceType string, waitSec int) ([]ssdp.Service, error) {
	return ssdp.Search(serviceType, waitSec, "")
}

// SearchError reports that the multicast search could not be performed at all
type SearchError struct {
	ServiceType string
	Err         error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("SSDP search for %s failed: %v", e.ServiceType, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Scanner handles SSDP device discovery
type Scanner struct {
	// Timeout is the SSDP collection window. SSDP waits in whole seconds, so
	// it is rounded up with a minimum of one second.
	Timeout time.Duration

	// QueryTimeout bounds each per-device info query
	QueryTimeout time.Duration

	// Port is the ECP port joined to each responder's host
	Port int
}

// NewScanner creates a new SSDP scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:      DefaultScanTimeout,
		QueryTimeout: DefaultQueryTimeout,
		Port:         ecp.DefaultPort,
	}
}

// ScanForDevices discovers all ECP devices on the local network
func (s *Scanner) ScanForDevices() ([]*Device, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext discovers devices with a custom context.
//
// Results are in response-arrival order with duplicate addresses removed.
// Responders whose info query fails are dropped with a warning. Finding
// nothing is not an error.
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*Device, error) {
	waitSec := timeoutToWaitSeconds(s.Timeout)
	logging.Info("Starting SSDP search",
		zap.String("service_type", ecp.ServiceType),
		zap.Int("wait_seconds", waitSec),
	)

	type searchResult struct {
		services []ssdp.Service
		err      error
	}
	done := make(chan searchResult, 1)
	go func() {
		services, err := searchDevices(ecp.ServiceType, waitSec)
		done <- searchResult{services, err}
	}()

	var services []ssdp.Service
	select {
	case r := <-done:
		if r.err != nil {
			return nil, &SearchError{ServiceType: ecp.ServiceType, Err: r.err}
		}
		services = r.services
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	found := s.uniqueResponders(services)
	logging.Info("SSDP search complete",
		zap.Int("responses", len(services)),
		zap.Int("unique", len(found)),
	)

	return s.resolveNames(ctx, found), nil
}

// uniqueResponders derives one candidate per address, keeping the first
// response seen for each
func (s *Scanner) uniqueResponders(services []ssdp.Service) []*Device {
	port := s.Port
	if port == 0 {
		port = ecp.DefaultPort
	}

	seen := make(map[string]bool)
	candidates := make([]*Device, 0, len(services))
	for _, svc := range services {
		addr, err := endpointAddress(svc.Location, port)
		if err != nil {
			logging.Debug("Ignoring SSDP response",
				zap.String("location", svc.Location),
				zap.Error(err),
			)
			continue
		}
		if seen[addr] {
			continue
		}
		seen[addr] = true
		candidates = append(candidates, &Device{
			Address:      addr,
			Location:     svc.Location,
			DiscoveredAt: time.Now(),
		})
	}
	return candidates
}

// resolveNames queries each candidate's name concurrently. Order is preserved.
func (s *Scanner) resolveNames(ctx context.Context, candidates []*Device) []*Device {
	var g errgroup.Group
	ok := make([]bool, len(candidates))
	g.SetLimit(maxConcurrentQueries)

	for i, d := range candidates {
		i, d := i, d
		g.Go(func() error {
			client := device.NewClient(d.Address)
			if s.QueryTimeout > 0 {
				client.SetTimeout(s.QueryTimeout)
			}

			name, err := client.QueryName(ctx)
			if err != nil {
				logging.Warn("Dropping unreachable device",
					zap.String("address", d.Address),
					zap.Error(err),
				)
				return nil
			}

			d.Name = name
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	devices := make([]*Device, 0, len(candidates))
	for i, d := range candidates {
		if ok[i] {
			devices = append(devices, d)
		}
	}
	return devices
}

// endpointAddress takes the host from an SSDP LOCATION header and joins it
// with the ECP port
func endpointAddress(location string, port int) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in location %q", location)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func timeoutToWaitSeconds(timeout time.Duration) int {
	seconds := int(math.Ceil(timeout.Seconds()))
	if seconds <= 0 {
		return 1
	}
	return seconds
}
