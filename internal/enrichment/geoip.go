package enrichment

import (
	"net"
)

type GeoInfo struct {
	Country string
	Region  string
}

// LookupGeo tags an IP as Local, Unknown, or invalid. A real geo database can
// be swapped in here without touching the worker.
func LookupGeo(ipAddress string) *GeoInfo {
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return &GeoInfo{Country: "Unknown", Region: "Unknown"}
	}

	if ip.IsLoopback() || ip.IsPrivate() {
		return &GeoInfo{Country: "Local", Region: "Local"}
	}

	return &GeoInfo{Country: "Unknown", Region: "Unknown"}
}
