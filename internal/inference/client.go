// Package inference talks to the optional Python model server that hosts
// the trained soil-health, crop-recommendation, and plant-disease models.
// The sidecar address is optional configuration; when it is absent or the
// connection fails, callers fall back to the deterministic heuristics in
// this package.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	errConnectionShutdown       = errors.New("connection shutdown")
	errConnectionStateUnchanged = errors.New("connection state did not change")
)

// The Python side retrains and reshapes model outputs far more often than
// this service redeploys, so requests and responses travel as
// google.protobuf.Struct and each call site validates the fields it needs.
const (
	methodSoilHealth    = "/krishimitra.inference.v1.InferenceService/PredictSoilHealth"
	methodCropRecommend = "/krishimitra.inference.v1.InferenceService/RecommendCrops"
	methodPlantDisease  = "/krishimitra.inference.v1.InferenceService/ClassifyDisease"
)

// Client is a gRPC client to the model server.
type Client struct {
	conn   *grpc.ClientConn
	health grpc_health_v1.HealthClient
	addr   string
	logger *slog.Logger
}

// ClientConfig holds connection tuning for the model server client.
type ClientConfig struct {
	Address          string
	ConnectTimeout   time.Duration
	RequestTimeout   time.Duration
	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
}

// DefaultClientConfig returns default connection tuning.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ConnectTimeout:   5 * time.Second,
		RequestTimeout:   30 * time.Second,
		KeepaliveTime:    2 * time.Minute,
		KeepaliveTimeout: 10 * time.Second,
	}
}

// NewClient connects to the model server and fails fast when the endpoint
// is not ready, so startup wiring can disable model features cleanly.
func NewClient(addr string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := DefaultClientConfig()
	cfg.Address = addr

	kacp := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: false,
	}

	conn, err := grpc.NewClient(cfg.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to model server at %s: %w", cfg.Address, err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := waitForReady(connectCtx, conn); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close gRPC connection after readiness failure", "error", closeErr)
		}
		return nil, fmt.Errorf("model server at %s not ready: %w", cfg.Address, err)
	}

	logger.Info("Connected to model server", "address", cfg.Address)

	return &Client{
		conn:   conn,
		health: grpc_health_v1.NewHealthClient(conn),
		addr:   cfg.Address,
		logger: logger,
	}, nil
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Idle:
			conn.Connect()
		case connectivity.Shutdown:
			return errConnectionShutdown
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w from %s", errConnectionStateUnchanged, state)
		}
	}
}

// Close tears down the connection.
func (c *Client) Close() {
	if err := c.conn.Close(); err != nil {
		c.logger.Warn("failed to close model server connection", "error", err)
	}
}

// Health checks the standard gRPC health service on the model server.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("model server health check: %w", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("model server not serving: %s", resp.GetStatus())
	}
	return nil
}

// invoke performs one struct-typed unary call.
func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return resp, nil
}
