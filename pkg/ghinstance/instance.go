// Package ghinstance identifies and normalizes code-hosting instances:
// the public github.com cloud, *.ghe.com tenants, and self-hosted
// enterprise deployments.
package ghinstance

import (
	"fmt"
	"net/url"
	"strings"
)

// Default is the hostname used when no host is specified.
const Default = "github.com"

// localhost is the cloud instance under a development proxy.
const localhost = "github.localhost"

// tenantSuffix marks hosted tenant instances.
const tenantSuffix = ".ghe.com"

// gistPrefix marks gist subdomains, which share the parent host's
// credentials.
const gistPrefix = "gist."

// NormalizeHostname canonicalizes a user-supplied hostname: whitespace
// and any URL scheme or path are stripped, the result is lowercased.
func NormalizeHostname(host string) string {
	h := strings.TrimSpace(host)
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	if i := strings.IndexByte(h, '/'); i >= 0 {
		h = h[:i]
	}
	return strings.ToLower(h)
}

// IsGitHubCom reports whether host is the public cloud instance.
func IsGitHubCom(host string) bool {
	n := NormalizeHostname(host)
	return n == Default || n == localhost
}

// IsTenant reports whether host is a hosted tenant instance.
func IsTenant(host string) bool {
	return strings.HasSuffix(NormalizeHostname(host), tenantSuffix)
}

// IsEnterprise reports whether host is a self-hosted deployment.
func IsEnterprise(host string) bool {
	return !IsGitHubCom(host) && !IsTenant(host)
}

// GistHost returns the hostname serving gists for host.
func GistHost(host string) string {
	n := NormalizeHostname(host)
	if IsGitHubCom(n) {
		return gistPrefix + Default
	}
	return n
}

// IsGistHost reports whether host is a gist subdomain.
func IsGistHost(host string) bool {
	return strings.HasPrefix(NormalizeHostname(host), gistPrefix)
}

// StripGistPrefix returns the parent host for a gist subdomain, or the
// normalized host unchanged when it carries no gist prefix. Credentials
// for gist.<host> are stored under <host>.
func StripGistPrefix(host string) string {
	return strings.TrimPrefix(NormalizeHostname(host), gistPrefix)
}

// RESTPrefix returns the REST API base URL for host.
func RESTPrefix(host string) string {
	n := NormalizeHostname(host)
	if IsGitHubCom(n) {
		return "https://api.github.com/"
	}
	return fmt.Sprintf("https://%s/api/v3/", n)
}

// GraphQLEndpoint returns the GraphQL API endpoint for host.
func GraphQLEndpoint(host string) string {
	n := NormalizeHostname(host)
	if IsGitHubCom(n) {
		return "https://api.github.com/graphql"
	}
	return fmt.Sprintf("https://%s/api/graphql", n)
}

// HostPrefix returns the HTTPS URL prefix for host, e.g.
// "https://github.com/".
func HostPrefix(host string) string {
	return fmt.Sprintf("https://%s/", NormalizeHostname(host))
}

// HostFromURL extracts the normalized hostname from u. The second
// return is false when u carries no host component.
func HostFromURL(u *url.URL) (string, bool) {
	if u == nil || u.Hostname() == "" {
		return "", false
	}
	return NormalizeHostname(u.Hostname()), true
}
