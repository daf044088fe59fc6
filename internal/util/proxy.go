package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the transport proxy for a backend client.
//
// With no explicit proxy the environment decides. Otherwise loopback hosts
// (a local inference server) and hosts matched by noProxy go direct. noProxy
// is a comma-separated list of hostnames or domain suffixes, "*" matches all.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		if isLoopback(host) || matchesNoProxy(host, bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitNoProxy(noProxy string) []string {
	var entries []string
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func matchesNoProxy(host string, entries []string) bool {
	host = strings.ToLower(host)
	for _, entry := range entries {
		if entry == "*" || host == strings.TrimPrefix(entry, ".") {
			return true
		}
		suffix := entry
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
