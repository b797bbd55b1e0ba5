package database

import (
	"context"
	"net"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Host is one node of the cluster as reported by the system tables.
type Host struct {
	Address    string `json:"address"`
	DataCenter string `json:"data_center"`
	Rack       string `json:"rack"`
	HostID     string `json:"host_id"`
	Version    string `json:"version"`
}

// ClusterInfo is the cluster name plus every node the coordinator knows about.
type ClusterInfo struct {
	Name  string `json:"name"`
	Hosts []Host `json:"hosts"`
}

const (
	localQuery = "SELECT cluster_name, data_center, rack, host_id, release_version, rpc_address FROM system.local"
	peersQuery = "SELECT peer, data_center, rack, host_id, release_version FROM system.peers"
)

// Describe reads the topology from system.local (the coordinator) and
// system.peers (every other node).
func Describe(ctx context.Context, s Session) (*ClusterInfo, error) {
	info := &ClusterInfo{}

	var (
		local      Host
		hostID     gocql.UUID
		rpcAddress net.IP
	)
	scanner := s.Query(ctx, localQuery)
	for scanner.Next() {
		if err := scanner.Scan(&info.Name, &local.DataCenter, &local.Rack, &hostID, &local.Version, &rpcAddress); err != nil {
			return nil, errors.Wrap(err, "scanning system.local")
		}
		local.HostID = hostID.String()
		local.Address = rpcAddress.String()
		info.Hosts = append(info.Hosts, local)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading system.local")
	}

	scanner = s.Query(ctx, peersQuery)
	for scanner.Next() {
		var (
			peer Host
			addr net.IP
		)
		if err := scanner.Scan(&addr, &peer.DataCenter, &peer.Rack, &hostID, &peer.Version); err != nil {
			return nil, errors.Wrap(err, "scanning system.peers")
		}
		peer.HostID = hostID.String()
		peer.Address = addr.String()
		info.Hosts = append(info.Hosts, peer)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading system.peers")
	}

	return info, nil
}

// LogClusterInfo writes the cluster name and one line per node.
func LogClusterInfo(logger *zerolog.Logger, info *ClusterInfo) {
	logger.Debug().Str("cluster", info.Name).Msg("connected to cluster")
	for _, h := range info.Hosts {
		logger.Debug().
			Str("data_center", h.DataCenter).
			Str("rack", h.Rack).
			Str("address", h.Address).
			Msg("node of cluster")
	}
}
