package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checks that the domain of an account email can
// actually receive mail before we create the account. MX is the real
// signal; a bare A/AAAA record is accepted as a fallback because small
// businesses often run mail on the apex host.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
