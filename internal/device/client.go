package device

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/muurk/controku/internal/ecp"
	"github.com/muurk/controku/internal/logging"
)

// maxBodySize caps how much of a response body is read. Channel listings are
// the largest bodies the protocol returns and stay well below this.
const maxBodySize = 4 << 20

// Client is the per-device session: it wraps one device address and exposes
// the query and command operations of the protocol. A Client holds no device
// state between calls, so one value can be shared by concurrent callers.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.1.20:8060")
	BaseURL string

	// Address is the device address used in errors and logs (e.g., "192.168.1.20:8060")
	Address string

	// HTTPClient is the underlying HTTP client; its Timeout bounds every request
	HTTPClient *http.Client
}

// Address returns host joined with the protocol port. A host that already
// carries a port is returned unchanged.
func Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(ecp.DefaultPort))
}

// NewClient creates a session for the device at host (an IP address or hostname)
func NewClient(host string) *Client {
	addr := Address(host)
	return &Client{
		BaseURL:    "http://" + addr,
		Address:    addr,
		HTTPClient: &http.Client{Timeout: ecp.DefaultTimeout},
	}
}

// NewClientWithURL creates a session with a full base URL
// baseURL: Full base URL (e.g., "http://192.168.1.20:8060")
func NewClientWithURL(baseURL string) *Client {
	addr := baseURL
	if u, err := parseHost(baseURL); err == nil {
		addr = u
	}
	return &Client{
		BaseURL:    baseURL,
		Address:    addr,
		HTTPClient: &http.Client{Timeout: ecp.DefaultTimeout},
	}
}

func parseHost(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in %q", baseURL)
	}
	return u.Host, nil
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// do performs one request and returns the response body. Transport failures
// and non-success statuses are both reported as unreachable errors.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, ecp.NewUnreachableError(c.Address, "failed to create request", err)
	}

	logging.LogRequest(c.Address, method, path)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, ecp.NewUnreachableError(c.Address, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	logging.LogResponse(c.Address, path, resp.StatusCode, len(body), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ecp.NewStatusError(c.Address, resp.StatusCode)
	}
	if err != nil {
		return nil, ecp.NewUnreachableError(c.Address, "failed to read response body", err)
	}

	return body, nil
}

// GetInfo fetches and parses the device-info query. Power state is read
// fresh on every call.
func (c *Client) GetInfo(ctx context.Context) (*ecp.DeviceInfo, error) {
	body, err := c.do(ctx, http.MethodGet, ecp.PathDeviceInfo)
	if err != nil {
		return nil, err
	}

	info, err := ecp.ParseDeviceInfo(body)
	if err != nil {
		logging.LogRawBody("Unparseable device-info", body)
		return nil, err
	}
	info.Address = c.Address
	return info, nil
}

// QueryName fetches the device-info query and returns only the display name.
// It succeeds for devices whose power mode ParseDeviceInfo would reject.
func (c *Client) QueryName(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, ecp.PathDeviceInfo)
	if err != nil {
		return "", err
	}
	return ecp.ParseDeviceName(body)
}

// SendKey sends a single keypress. No response body is interpreted.
func (c *Client) SendKey(ctx context.Context, key ecp.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, key.Path())
	return err
}

// SendText types text as a sequence of literal keypresses, stopping at the
// first failure.
func (c *Client) SendText(ctx context.Context, text string) error {
	if text == "" {
		return ecp.NewInvalidParameterError("text must not be empty")
	}
	for _, r := range text {
		if err := c.SendKey(ctx, ecp.Literal(r)); err != nil {
			return err
		}
	}
	return nil
}

// PowerOn wakes the device from standby
func (c *Client) PowerOn(ctx context.Context) error {
	return c.SendKey(ctx, ecp.KeyPowerOn)
}

// PowerOff puts the device into standby
func (c *Client) PowerOff(ctx context.Context) error {
	return c.SendKey(ctx, ecp.KeyPowerOff)
}

// TogglePower reads the current power state and sends the command for the
// other state, returning the state that was requested.
//
// The read and the write are two separate requests. If the power state
// changes in between (someone presses the physical remote), the wrong
// transition may be applied. Callers that need stronger guarantees must
// serialize operations per device themselves.
func (c *Client) TogglePower(ctx context.Context) (ecp.PowerState, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return ecp.PowerStandby, err
	}

	var target ecp.PowerState
	switch info.Power {
	case ecp.PowerStandby:
		target = ecp.PowerOn
	case ecp.PowerOn:
		target = ecp.PowerStandby
	default:
		return info.Power, ecp.NewUnsupportedStateError(info.Power.String())
	}

	if err := c.SendKey(ctx, info.Power.ToggleKey()); err != nil {
		return info.Power, err
	}
	return target, nil
}

// Search validates and submits a search command. Validation failures are
// returned before any request is made.
func (c *Client) Search(ctx context.Context, keyword string, opts ...ecp.SearchOption) error {
	query, err := ecp.BuildSearchQuery(keyword, opts...)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, ecp.PathSearchBrowse+"?"+query)
	return err
}

// requireTV gates TV-only operations on the is-tv capability flag
func (c *Client) requireTV(ctx context.Context) error {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return err
	}
	if !info.TV {
		return ecp.NewNotATelevisionError(c.Address)
	}
	return nil
}

// GetTVChannels lists the live TV channels of a TV-class device
func (c *Client) GetTVChannels(ctx context.Context) ([]ecp.Channel, error) {
	if err := c.requireTV(ctx); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, ecp.PathTVChannels)
	if err != nil {
		return nil, err
	}

	channels, err := ecp.ParseChannelList(body)
	if err != nil {
		logging.LogRawBody("Unparseable tv-channels", body)
		return nil, err
	}
	return channels, nil
}

// GetActiveTVChannel returns the channel currently playing on (or last
// played by) the live TV input of a TV-class device
func (c *Client) GetActiveTVChannel(ctx context.Context) (*ecp.ActiveChannel, error) {
	if err := c.requireTV(ctx); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, ecp.PathTVActiveChannel)
	if err != nil {
		return nil, err
	}

	active, err := ecp.ParseActiveChannel(body)
	if err != nil {
		logging.LogRawBody("Unparseable tv-active-channel", body)
		return nil, err
	}
	return active, nil
}
