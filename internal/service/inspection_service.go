package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pgha-inspect/internal/config"
	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
	"pgha-inspect/pkg/utils"
)

// InspectionService runs one cluster inspection per request.
type InspectionService struct {
	connectors ConnectorFactory
	cluster    config.ClusterConfig
	logger     *logger.Logger
}

func NewInspectionService(connectors ConnectorFactory, cluster config.ClusterConfig, logger *logger.Logger) *InspectionService {
	return &InspectionService{
		connectors: connectors,
		cluster:    cluster,
		logger:     logger,
	}
}

func (s *InspectionService) Inspect(req *model.InspectRequest) (*model.InspectResponse, error) {
	if err := utils.ValidateHost(req.NodeIP); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := s.logger.With(zap.String("run_id", runID))
	log.Info("Cluster inspection started",
		zap.String("seed", req.NodeIP),
		zap.Bool("include_seed", req.IncludeSeed),
	)
	start := time.Now()

	orchestrator := NewOrchestrator(
		s.connectors(req.Port, req.Username, req.Password),
		NewInspector(s.cluster, log),
		log,
		WithIncludeSeed(req.IncludeSeed),
		WithFetchDir(req.FetchDir, s.cluster.ConfigFiles()),
	)

	records, err := orchestrator.Run(req.NodeIP)
	if err != nil {
		log.Error("Cluster inspection aborted", zap.Error(err))
		return nil, err
	}

	log.Info("Cluster inspection finished",
		zap.Int("nodes", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &model.InspectResponse{
		Success: true,
		RunID:   runID,
		Nodes:   records,
	}, nil
}
