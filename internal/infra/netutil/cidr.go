package netutil

import (
	"fmt"
	"net"
	"strings"
)

// ParseCIDRs parses CIDR strings. Invalid entries are skipped and returned
// joined in err so the caller can log them; valid ones are still usable.
func ParseCIDRs(cidrs []string) (out []*net.IPNet, err error) {
	var bad []string
	for _, s := range cidrs {
		_, n, perr := net.ParseCIDR(strings.TrimSpace(s))
		if perr != nil {
			bad = append(bad, s)
			continue
		}
		out = append(out, n)
	}
	if len(bad) > 0 {
		err = fmt.Errorf("invalid CIDRs ignored: %s", strings.Join(bad, ", "))
	}
	return out, err
}

// Contains reports whether ip falls in any of nets.
func Contains(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
