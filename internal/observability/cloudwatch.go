// Package observability publishes API telemetry to CloudWatch.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"driftboard/internal/config"
	"driftboard/internal/core"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Compile-time assertion that CloudWatchMetrics satisfies the server's
// collector interface.
var _ core.MetricsCollector = (*CloudWatchMetrics)(nil)

// CloudWatchMetrics publishes per-request latency and count metrics.
//
// Metrics emitted:
//   - RequestCount:   Dims {Method, Endpoint, Status} -- one per request
//   - RequestLatency: Dims {Method, Endpoint} -- handler wall time
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger

	// publishTimeout bounds the PutMetricData call; metric emission must
	// never stall a request.
	publishTimeout time.Duration
}

// NewCloudWatchMetrics creates a collector publishing to the given
// namespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchMetrics{
		client:         client,
		namespace:      namespace,
		logger:         logger,
		publishTimeout: 2 * time.Second,
	}
}

// NewCloudWatchMetricsFromConfig builds the AWS client from the default
// credential chain and wraps it in a collector.
func NewCloudWatchMetricsFromConfig(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (*CloudWatchMetrics, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}
	return NewCloudWatchMetrics(cloudwatch.NewFromConfig(awsCfg), cfg.Namespace, logger), nil
}

// RecordRequest publishes one request's count and latency metrics.
// Failures are logged and swallowed; telemetry loss never surfaces to
// callers.
func (m *CloudWatchMetrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), m.publishTimeout)
	defer cancel()

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("RequestCount"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Method"), Value: aws.String(method)},
					{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
					{Name: aws.String("Status"), Value: aws.String(status)},
				},
			},
			{
				MetricName: aws.String("RequestLatency"),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Method"), Value: aws.String(method)},
					{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
				},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to publish request metrics",
			slog.String("error", err.Error()),
			slog.String("method", method),
			slog.String("endpoint", endpoint),
		)
	}
}
