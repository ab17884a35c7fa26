package resolve

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL bounds how long a resolved address is reused.
const DefaultTTL = 5 * time.Minute

// Resolver resolves host names to a single address with simple caching
type Resolver struct {
	cache      *ttlcache.Cache[string, string]
	network    string
	lookupFunc func(ctx context.Context, network, host string) ([]net.IP, error)
}

// NewResolver creates a Resolver that keeps answers for ttl.
// network is "ip", "ip4" or "ip6" and restricts the address family.
func NewResolver(network string, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if network == "" {
		network = "ip"
	}
	return &Resolver{
		cache:      ttlcache.New(ttlcache.WithTTL[string, string](ttl)),
		network:    network,
		lookupFunc: net.DefaultResolver.LookupIP,
	}
}

// Resolve returns an address for host, preferring IPv4.
// Literal IP addresses are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, error) {
	if net.ParseIP(host) != nil {
		return host, nil
	}
	if item := r.cache.Get(host); item != nil {
		return item.Value(), nil
	}

	addrs, err := r.lookupFunc(ctx, r.network, host)
	if err != nil {
		return "", err
	}
	addr, ok := pickAddr(addrs)
	if !ok {
		return "", fmt.Errorf("no addresses found for %s", host)
	}
	r.cache.Set(host, addr, ttlcache.DefaultTTL)
	return addr, nil
}

// Cached returns the cached address for host, if any
func (r *Resolver) Cached(host string) (string, bool) {
	item := r.cache.Get(host)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func pickAddr(addrs []net.IP) (string, bool) {
	for _, ip := range addrs {
		if ip.To4() != nil {
			return ip.String(), true
		}
	}
	for _, ip := range addrs {
		if ip != nil {
			return ip.String(), true
		}
	}
	return "", false
}
