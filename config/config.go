// Package config parses the CLI-argument grammar for one peer session:
// local and remote AS/IP, connection mode, and an optional list of
// locally-advertised networks. Parse errors are returned rather than
// fatal, so a malformed argument string is recoverable by the caller
// instead of aborting the process from inside the parser.
package config

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/mgilson/bgpd/bgperr"
	"github.com/mgilson/bgpd/transport"
)

// Config is everything one Peer needs to dial (or accept) a session and
// seed its locally-originated routes.
type Config struct {
	LocalAS  uint16
	LocalIP  netip.Addr
	RemoteAS uint16
	RemoteIP netip.Addr
	Mode     transport.Mode
	Networks []netip.Prefix
}

// Parse reads the positional grammar
// "<local_as> <local_ip> <remote_as> <remote_ip> <mode> [<prefix/len>...]"
// from args (already split on whitespace — not the raw argv).
func Parse(args []string) (Config, error) {
	if len(args) < 5 {
		return Config{}, fmt.Errorf("%w: expected at least 5 arguments, got %d", bgperr.ErrConfigParse, len(args))
	}

	localAS, err := parseAS(args[0])
	if err != nil {
		return Config{}, err
	}

	localIP, err := netip.ParseAddr(args[1])
	if err != nil {
		return Config{}, fmt.Errorf("%w: local_ip: %v", bgperr.ErrConfigParse, err)
	}

	remoteAS, err := parseAS(args[2])
	if err != nil {
		return Config{}, err
	}

	remoteIP, err := netip.ParseAddr(args[3])
	if err != nil {
		return Config{}, fmt.Errorf("%w: remote_ip: %v", bgperr.ErrConfigParse, err)
	}

	mode, err := parseMode(args[4])
	if err != nil {
		return Config{}, err
	}

	var networks []netip.Prefix
	for _, s := range args[5:] {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: advertised network %q: %v", bgperr.ErrConfigParse, s, err)
		}
		networks = append(networks, p)
	}

	return Config{
		LocalAS:  localAS,
		LocalIP:  localIP,
		RemoteAS: remoteAS,
		RemoteIP: remoteIP,
		Mode:     mode,
		Networks: networks,
	}, nil
}

func parseAS(s string) (uint16, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return 0, fmt.Errorf("%w: autonomous system number %q must be 0-65535", bgperr.ErrConfigParse, s)
	}
	return uint16(n), nil
}

func parseMode(s string) (transport.Mode, error) {
	switch strings.ToLower(s) {
	case "active":
		return transport.Active, nil
	case "passive":
		return transport.Passive, nil
	default:
		return 0, fmt.Errorf("%w: mode %q must be active or passive", bgperr.ErrConfigParse, s)
	}
}
