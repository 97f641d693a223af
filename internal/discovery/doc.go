// Package discovery provides SSDP-based discovery of ECP devices.
//
// The scanner multicasts an M-SEARCH for the "roku:ecp" service type and
// collects responses for a bounded window. Each response's LOCATION header
// yields a host, which is joined with the ECP port to form the device
// address.
//
// # Discovery Process
//
//  1. Send the M-SEARCH and wait for the collection window to close
//  2. Derive an address from each response, dropping repeat addresses
//  3. Query device-info on every unique address for its display name
//  4. Drop (with a warning) any address whose query fails
//
// Results keep response-arrival order. An empty result is a success.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 5 * time.Second
//
//	devices, err := scanner.ScanForDevicesWithContext(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow SSDP (UDP port 1900) and TCP port 8060
package discovery
