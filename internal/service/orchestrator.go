package service

import (
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"pgha-inspect/internal/metrics"
	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
)

type Orchestrator struct {
	connector   Connector
	inspector   *Inspector
	logger      *logger.Logger
	includeSeed bool
	fetchDir    string
	fetchPaths  []string
}

type Option func(*Orchestrator)

// WithIncludeSeed adds the seed node's own record ahead of its peers.
func WithIncludeSeed(include bool) Option {
	return func(o *Orchestrator) {
		o.includeSeed = include
	}
}

// WithFetchDir copies the given remote files of every inspected node into
// <dir>/<host>/. An empty dir disables fetching.
func WithFetchDir(dir string, remotePaths []string) Option {
	return func(o *Orchestrator) {
		o.fetchDir = dir
		o.fetchPaths = remotePaths
	}
}

func NewOrchestrator(connector Connector, inspector *Inspector, logger *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		connector: connector,
		inspector: inspector,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run inspects the seed, discovers its peers and inspects each of them in
// turn. The seed's own record is returned only with WithIncludeSeed. The seed
// session stays open until Run returns, so it is already closed when the
// caller renders the records. Peer sessions are closed before the next peer
// is opened. Any connection failure aborts the run.
func (o *Orchestrator) Run(seed string) ([]*model.NodeRecord, error) {
	session, err := o.connector.Connect(seed)
	if err != nil {
		metrics.NodeInspections.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	defer session.Close()

	seedRecord := o.inspector.Inspect(seed, session)
	o.fetchFiles(seed, session)

	peers, err := DiscoverPeers(seedRecord.Value(model.FieldPatroniConf))
	if err != nil {
		o.logger.Warn("Cluster discovery failed, no peers to inspect",
			zap.String("seed", seed),
			zap.Error(err),
		)
	} else {
		o.logger.Info("Cluster members discovered",
			zap.String("seed", seed),
			zap.Strings("peers", peers),
		)
	}

	records := make([]*model.NodeRecord, 0, len(peers)+1)
	if o.includeSeed {
		records = append(records, seedRecord)
	}

	for _, peer := range peers {
		if o.includeSeed && peer == seed {
			continue
		}
		record, err := o.inspectPeer(peer)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (o *Orchestrator) inspectPeer(host string) (*model.NodeRecord, error) {
	session, err := o.connector.Connect(host)
	if err != nil {
		metrics.NodeInspections.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	defer session.Close()

	record := o.inspector.Inspect(host, session)
	o.fetchFiles(host, session)
	return record, nil
}

func (o *Orchestrator) fetchFiles(host string, session Session) {
	if o.fetchDir == "" || len(o.fetchPaths) == 0 {
		return
	}

	fetcher, ok := session.(FileFetcher)
	if !ok {
		o.logger.Warn("Session cannot fetch files", zap.String("host", host))
		return
	}

	for _, remote := range o.fetchPaths {
		local := filepath.Join(o.fetchDir, filepath.Base(host), path.Base(remote))
		if err := fetcher.FetchFile(remote, local); err != nil {
			o.logger.Warn("Failed to fetch remote file",
				zap.String("host", host),
				zap.String("remote_path", remote),
				zap.Error(err),
			)
			continue
		}
		o.logger.Debug("Fetched remote file",
			zap.String("host", host),
			zap.String("remote_path", remote),
			zap.String("local_path", local),
		)
	}
}
