package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/controku/internal/config"
	"github.com/muurk/controku/internal/device"
	"github.com/muurk/controku/internal/discovery"
	"github.com/muurk/controku/internal/ecp"
	"github.com/muurk/controku/internal/logging"
	"github.com/muurk/controku/internal/remote"
	"github.com/muurk/controku/internal/urls"
)

// Output formats accepted by --format
const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

// Global command flags
var (
	deviceRef      string
	requestTimeout time.Duration
	outputFormat   string
	logLevel       string
)

// Replaced in tests
var (
	loadRegistry = config.LoadRegistry
	saveRegistry = func(r *config.Registry) error { return r.Save() }
	scanDevices  = func(ctx context.Context, s *discovery.Scanner) ([]*discovery.Device, error) {
		return s.ScanForDevicesWithContext(ctx)
	}
	runRemote = func(d remote.Device, timeout time.Duration) error {
		return remote.Run(d, timeout)
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceRef, "device", "d", "", "Device address or remembered name (default: the device chosen with 'use')")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "Per-request timeout (default from config, 5s)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); also CONTROKU_LOG_LEVEL")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(activeChannelCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(remoteCmd)
}

func validateOutputFormat(format string) error {
	switch format {
	case formatDetailed, formatCompact, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid --format %q (use detailed, compact or json)", format)
	}
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for ECP devices on the network",
	Long: `Scan for ECP devices using an SSDP search for "roku:ecp".

Every device that answers is queried for its name. Devices that answer the
search but not the query are left out. Found devices are remembered in the
configuration file so they can be selected by name.`,
	Example: `  # Scan with the configured window (default 3 seconds)
  controku scan

  # Longer scan for busy networks
  controku scan --wait 10s`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanWait time.Duration

func init() {
	scanCmd.Flags().DurationVar(&scanWait, "wait", 0, "SSDP collection window (default from config, 3s)")
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	scanner := discovery.NewScanner()
	scanner.Timeout = reg.DiscoverTimeout()
	if scanWait > 0 {
		scanner.Timeout = scanWait
	}
	scanner.QueryTimeout = timeoutFor(reg)

	if outputFormat != formatJSON {
		fmt.Fprintf(out, "Scanning for ECP devices (timeout: %s)...\n\n", scanner.Timeout)
	}

	devices, err := scanDevices(cmd.Context(), scanner)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	for _, d := range devices {
		reg.RememberDevice(d.Address, d.Name)
	}
	if len(devices) > 0 {
		persist(reg)
	}

	if outputFormat == formatJSON {
		return printJSON(out, devices)
	}

	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Ensure the device is powered on and on the same network")
		fmt.Fprintln(out, "  - Check that your firewall allows SSDP (UDP 1900)")
		fmt.Fprintln(out, "  - Try increasing --wait for slower networks")
		fmt.Fprintln(out, "  - Use --device to specify the address manually")
		return nil
	}

	fmt.Fprintf(out, "Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		if outputFormat == formatCompact {
			fmt.Fprintf(out, "%s\t%s\n", d.Address, d.Name)
			continue
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, d.Name)
		fmt.Fprintf(out, "   Address:  %s\n", d.Address)
		fmt.Fprintf(out, "   Location: %s\n\n", d.Location)
	}

	fmt.Fprintln(out, "Use 'controku use <name>' to choose a default device")
	return nil
}

// infoCmd displays device information
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information and power state",
	Example: `  controku info
  controku info --device 192.168.1.20 --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, reg, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}

		info, err := client.GetInfo(cmd.Context())
		if err != nil {
			return err
		}

		reg.RememberDevice(client.Address, info.Name)
		reg.EnsureDevice(client.Address).Model = info.Model
		persist(reg)

		out := cmd.OutOrStdout()
		switch outputFormat {
		case formatJSON:
			return printJSON(out, info)
		case formatCompact:
			fmt.Fprint(out, info.FormatCompact())
		default:
			fmt.Fprint(out, info.FormatDetailed())
		}
		return nil
	},
}

// keyCmd sends keypresses
var keyCmd = &cobra.Command{
	Use:   "key <key>...",
	Short: "Send one or more keypresses",
	Long: `Send keypresses in the order given.

Common keys: Home, Back, Up, Down, Left, Right, Select, Play, Rev, Fwd,
InstantReplay, Info, Search, Backspace, Enter, VolumeUp, VolumeDown,
VolumeMute, PowerOn, PowerOff, ChannelUp, ChannelDown, InputTuner.

All keys are checked before any is sent. Full list: ` + urls.ECPKeypressKeys,
	Example: `  controku key Home
  controku key Down Down Select`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]ecp.Key, len(args))
		for i, arg := range args {
			keys[i] = ecp.Key(arg)
			if err := keys[i].Validate(); err != nil {
				return err
			}
		}

		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := client.SendKey(cmd.Context(), k); err != nil {
				return err
			}
			if outputFormat != formatJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %s\n", k)
			}
		}
		return nil
	},
}

// typeCmd types text into the device's on-screen keyboard
var typeCmd = &cobra.Command{
	Use:   "type <text>...",
	Short: "Type text into the on-screen keyboard",
	Long: `Type text as a sequence of literal keypresses, one per character.
Arguments are joined with single spaces.`,
	Example: `  controku type "the office"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if err := client.SendText(cmd.Context(), text); err != nil {
			return err
		}
		if outputFormat != formatJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "Typed %d character(s)\n", len([]rune(text)))
		}
		return nil
	},
}

// powerCmd changes the power state
var powerCmd = &cobra.Command{
	Use:   "power [on|off|toggle]",
	Short: "Turn the device on, off (standby), or toggle it",
	Long: `Change the power state. Without an argument the current state is read
and the opposite command is sent.

Toggling fails without sending anything when the device reports a power
state other than on or standby (for example while it reboots).`,
	Example: `  controku power
  controku power off`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}

		action := "toggle"
		if len(args) == 1 {
			action = args[0]
		}

		ctx := cmd.Context()
		var target ecp.PowerState
		switch action {
		case "on":
			target, err = ecp.PowerOn, client.PowerOn(ctx)
		case "off":
			target, err = ecp.PowerStandby, client.PowerOff(ctx)
		default:
			target, err = client.TogglePower(ctx)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == formatJSON {
			return printJSON(out, map[string]ecp.PowerState{"power": target})
		}
		fmt.Fprintf(out, "Requested power %s\n", target)
		return nil
	},
}

// Search command flags
var (
	searchTitle           string
	searchType            string
	searchTMSID           string
	searchSeason          int
	searchShowUnavailable bool
	searchMatchAny        bool
	searchProviderID      string
	searchProvider        string
	searchLaunch          bool
)

// searchCmd opens the device's search results
var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Search for content on the device",
	Long: `Open the device's search results for a keyword.

Only the flags you set are sent. --type must be one of movie, tv-show,
person, channel or game; invalid parameters are rejected before anything is
sent to the device.`,
	Example: `  controku search batman --type movie
  controku search "the office" --type tv-show --season 3 --provider Peacock --launch`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := strings.Join(args, " ")
		opts := searchOptions(cmd)

		// Reject bad parameters before resolving (and possibly scanning for) a device
		if _, err := ecp.BuildSearchQuery(keyword, opts...); err != nil {
			return err
		}

		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}
		if err := client.Search(cmd.Context(), keyword, opts...); err != nil {
			return err
		}
		if outputFormat != formatJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "Search for %q sent\n", keyword)
		}
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchTitle, "title", "", "Exact content title")
	f.StringVar(&searchType, "type", "", "Content type (movie, tv-show, person, channel, game)")
	f.StringVar(&searchTMSID, "tmsid", "", "TMS ID of the content")
	f.IntVar(&searchSeason, "season", 0, "Season number")
	f.BoolVar(&searchShowUnavailable, "show-unavailable", false, "Include content not available on installed channels")
	f.BoolVar(&searchMatchAny, "match-any", false, "Match any search term")
	f.StringVar(&searchProviderID, "provider-id", "", "Channel ID of the preferred provider")
	f.StringVar(&searchProvider, "provider", "", "Name of the preferred provider")
	f.BoolVar(&searchLaunch, "launch", false, "Launch the content when there is a single match")
}

// searchOptions builds options from the flags that were explicitly set
func searchOptions(cmd *cobra.Command) []ecp.SearchOption {
	f := cmd.Flags()
	var opts []ecp.SearchOption
	if f.Changed("title") {
		opts = append(opts, ecp.WithTitle(searchTitle))
	}
	if f.Changed("type") {
		opts = append(opts, ecp.WithContentType(searchType))
	}
	if f.Changed("tmsid") {
		opts = append(opts, ecp.WithTMSID(searchTMSID))
	}
	if f.Changed("season") {
		opts = append(opts, ecp.WithSeason(searchSeason))
	}
	if f.Changed("show-unavailable") {
		opts = append(opts, ecp.WithAllowUnavailable(searchShowUnavailable))
	}
	if f.Changed("match-any") {
		opts = append(opts, ecp.WithMatchAny(searchMatchAny))
	}
	if f.Changed("provider-id") {
		opts = append(opts, ecp.WithProviderID(searchProviderID))
	}
	if f.Changed("provider") {
		opts = append(opts, ecp.WithProviderName(searchProvider))
	}
	if f.Changed("launch") {
		opts = append(opts, ecp.WithAutoLaunch(searchLaunch))
	}
	return opts
}

// channelsCmd lists live TV channels
var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List live TV channels (TV devices only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}

		channels, err := client.GetTVChannels(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case formatJSON:
			return printJSON(out, channels)
		case formatCompact:
			for _, ch := range channels {
				fmt.Fprintf(out, "%s\t%s\n", ch.Number, ch.Name)
			}
		default:
			fmt.Fprint(out, ecp.FormatChannelTable(channels))
		}
		return nil
	},
}

// activeChannelCmd shows the tuned channel
var activeChannelCmd = &cobra.Command{
	Use:   "active-channel",
	Short: "Show the current live TV channel and program (TV devices only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}

		active, err := client.GetActiveTVChannel(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case formatJSON:
			return printJSON(out, active)
		case formatCompact:
			fmt.Fprintf(out, "%s\t%s\t%s\n", active.Number, active.Name, active.Title)
		default:
			fmt.Fprint(out, active.FormatActive())
		}
		return nil
	},
}

// useCmd selects the default device
var useCmd = &cobra.Command{
	Use:   "use [device]",
	Short: "Choose the default device, or list remembered devices",
	Long: `Choose the device used when --device is not given. The device may be an
address or the name of a device found by 'scan'. The device is queried
first, so only reachable devices can be chosen.

Without an argument, remembered devices are listed.`,
	Example: `  controku use "Living Room TV"
  controku use 192.168.1.20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

var useForget bool

func init() {
	useCmd.Flags().BoolVar(&useForget, "forget", false, "Forget the device instead of choosing it")
}

func runUse(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return listRemembered(out, reg)
	}

	address := device.Address(reg.ResolveDevice(args[0]))

	if useForget {
		if !reg.ForgetDevice(address) {
			return fmt.Errorf("no remembered device %q", args[0])
		}
		if err := saveRegistry(reg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Forgot %s\n", address)
		return nil
	}

	client := device.NewClient(address)
	client.SetTimeout(timeoutFor(reg))
	name, err := client.QueryName(cmd.Context())
	if err != nil {
		return err
	}

	reg.RememberDevice(address, name)
	reg.SetDefaultDevice(address)
	if err := saveRegistry(reg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Default device: %s (%s)\n", name, address)
	return nil
}

func listRemembered(out io.Writer, reg *config.Registry) error {
	if outputFormat == formatJSON {
		return printJSON(out, reg.Devices)
	}
	if len(reg.Devices) == 0 {
		fmt.Fprintln(out, "No remembered devices. Run 'controku scan' first.")
		return nil
	}
	for _, address := range reg.Addresses() {
		marker := " "
		if address == reg.DefaultDevice() {
			marker = "*"
		}
		d := reg.Devices[address]
		fmt.Fprintf(out, "%s %-22s %s\n", marker, address, d.Name)
	}
	return nil
}

// remoteCmd launches the interactive remote
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive keyboard remote",
	Long: `Control the device from the keyboard.

  esc/backspace  Back          h  Home          i  Info
  arrow keys     Navigate      enter/space/o/s  Select
  r  Rewind      p  Play/Pause  f  Fast forward
  m  Mute        [  Volume down ]  Volume up
  P  Power       t  Type text   q  Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, reg, err := newDeviceClient(cmd)
		if err != nil {
			return err
		}
		return runRemote(client, timeoutFor(reg))
	},
}

// newDeviceClient resolves --device (or the default device, or a single
// discovered device) into a session
func newDeviceClient(cmd *cobra.Command) (*device.Client, *config.Registry, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, err
	}

	address, err := resolveAddress(cmd, reg)
	if err != nil {
		return nil, nil, err
	}

	client := device.NewClient(address)
	client.SetTimeout(timeoutFor(reg))
	logging.Debug("Using device", zap.String("address", client.Address))
	return client, reg, nil
}

func resolveAddress(cmd *cobra.Command, reg *config.Registry) (string, error) {
	if deviceRef != "" {
		return reg.ResolveDevice(deviceRef), nil
	}
	if def := reg.DefaultDevice(); def != "" {
		return def, nil
	}

	// Try discovery
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, "No device specified, attempting discovery...")

	scanner := discovery.NewScanner()
	scanner.Timeout = reg.DiscoverTimeout()
	scanner.QueryTimeout = timeoutFor(reg)
	devices, err := scanDevices(cmd.Context(), scanner)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		return "", fmt.Errorf("no devices found. Use --device to specify an address")
	case 1:
		d := devices[0]
		fmt.Fprintf(errOut, "Found device: %s (%s)\n\n", d.Name, d.Address)
		reg.RememberDevice(d.Address, d.Name)
		persist(reg)
		return d.Address, nil
	default:
		fmt.Fprintf(errOut, "Found %d devices:\n", len(devices))
		for i, d := range devices {
			fmt.Fprintf(errOut, "%d. %s (%s)\n", i+1, d.Name, d.Address)
		}
		return "", fmt.Errorf("multiple devices found. Use --device or 'controku use' to pick one")
	}
}

func timeoutFor(reg *config.Registry) time.Duration {
	if requestTimeout > 0 {
		return requestTimeout
	}
	return reg.RequestTimeout()
}

// persist saves the registry, logging rather than failing the command
func persist(reg *config.Registry) {
	if err := saveRegistry(reg); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
