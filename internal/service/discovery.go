package service

import (
	"errors"

	"pgha-inspect/internal/pkg/patroni"
)

var ErrNoPeers = errors.New("no etcd hosts listed in patroni configuration")

// DiscoverPeers returns the hostnames of the etcd members named in a Patroni
// configuration, in listed order with duplicates kept.
func DiscoverPeers(configText string) ([]string, error) {
	cfg, err := patroni.Parse(configText)
	if err != nil {
		return nil, err
	}

	entries := cfg.EtcdHosts()
	peers := make([]string, 0, len(entries))
	for _, entry := range entries {
		if host := patroni.Hostname(entry); host != "" {
			peers = append(peers, host)
		}
	}
	if len(peers) == 0 {
		return nil, ErrNoPeers
	}
	return peers, nil
}
