// Package device provides the per-device ECP session.
//
// A Client wraps one device address (host plus port 8060) and issues the
// protocol's queries and commands over plain HTTP. Responses are decoded by
// package ecp; every failure is an *ecp.Error.
//
// # Usage Example
//
//	client := device.NewClient("192.168.1.20")
//	client.SetTimeout(3 * time.Second)
//
//	info, err := client.GetInfo(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info.Summary())
//
//	// Type into the on-screen keyboard
//	if err := client.SendText(ctx, "batman"); err != nil {
//	    return err
//	}
//
// # TV-only Operations
//
// GetTVChannels and GetActiveTVChannel query device-info first and fail with
// a not-a-television error, without issuing the channel request, when the
// device does not report is-tv.
package device
