package screening

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"dns-ledger-sim/logger"

	"go.uber.org/zap"
)

// DefaultEntropyThreshold marks domains above it as generated.
const DefaultEntropyThreshold = 4.0

// Prediction is the domain analysis outcome.
type Prediction string

const (
	NotMalicious Prediction = "not malicious"
	Malicious    Prediction = "malicious"
)

// ValidIPv4 reports whether ip is a dotted-quad IPv4 address.
func ValidIPv4(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	return err == nil && addr.Is4()
}

// Resolver is the subset of net.Resolver used for blocklist lookups.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Blocklist reports whether an IP is listed as abusive.
type Blocklist interface {
	Listed(ctx context.Context, ip string) (bool, error)
}

// DNSBL queries a DNS-based blocklist zone such as zen.spamhaus.org.
type DNSBL struct {
	Zone     string
	Resolver Resolver
}

// NewDNSBL creates a DNSBL that queries zone through the default resolver.
func NewDNSBL(zone string) *DNSBL {
	return &DNSBL{Zone: zone, Resolver: net.DefaultResolver}
}

// Listed resolves the reversed-octet query name. NXDOMAIN means not listed.
func (d *DNSBL) Listed(ctx context.Context, ip string) (bool, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return false, errors.New("not an IPv4 address: " + ip)
	}
	o := addr.As4()
	query := strings.Join([]string{
		strconv.Itoa(int(o[3])), strconv.Itoa(int(o[2])), strconv.Itoa(int(o[1])), strconv.Itoa(int(o[0])), d.Zone,
	}, ".")

	_, err = d.Resolver.LookupHost(ctx, query)
	if err == nil {
		return true, nil
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false, nil
	}
	return false, err
}

// Screener combines the blocklist and lexical checks.
type Screener struct {
	EntropyThreshold float64
	Blocklist        Blocklist // nil disables the blocklist check
}

// Listed checks the blocklist. Lookup failures count as not listed.
func (s *Screener) Listed(ctx context.Context, ip string) bool {
	if s.Blocklist == nil {
		return false
	}
	listed, err := s.Blocklist.Listed(ctx, ip)
	if err != nil {
		logger.Logger.Warn("Blocklist check error", zap.String("ip", ip), zap.Error(err))
		return false
	}
	return listed
}

// AnalyzeDomain flags domains whose character entropy exceeds the threshold.
func (s *Screener) AnalyzeDomain(domain string) Prediction {
	if Extract(domain).Entropy > s.EntropyThreshold {
		return Malicious
	}
	return NotMalicious
}
