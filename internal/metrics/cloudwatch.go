package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "MELODIST/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      *cloudwatch.Client
	enabled     bool
	environment string
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false}, nil
	}

	client := cloudwatch.NewFromConfig(cfg)
	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)

	return &Client{
		client:      client,
		enabled:     true,
		environment: environment,
	}, nil
}

// Enabled reports whether metrics are sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}

	go func() {
		ctx := context.Background()
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := []types.Dimension{
			{
				Name:  aws.String("Endpoint"),
				Value: aws.String(endpoint),
			},
			{
				Name:  aws.String("Environment"),
				Value: aws.String(m.environment),
			},
		}

		if err := m.putMetrics(ctx, dimensions,
			datum(metricName, 1, types.StandardUnitCount),
			datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds),
		); err != nil {
			log.Printf("Failed to record %s metric: %v", metricName, err)
		}
	}()
}

// RecordGeneration records note count, duration and every score axis of one
// composed melody, dimensioned by scale, shape and whether it was refined
func (m *Client) RecordGeneration(g Generation) {
	if !m.Enabled() {
		return
	}

	go func() {
		ctx := context.Background()
		dimensions := []types.Dimension{
			{
				Name:  aws.String("Scale"),
				Value: aws.String(g.Scale),
			},
			{
				Name:  aws.String("Shape"),
				Value: aws.String(g.Shape),
			},
			{
				Name:  aws.String("Refined"),
				Value: aws.String(boolToString(g.Refined)),
			},
			{
				Name:  aws.String("Environment"),
				Value: aws.String(m.environment),
			},
		}

		data := []types.MetricDatum{
			datum("Generations", 1, types.StandardUnitCount),
			datum("GenerationNotes", float64(g.Notes), types.StandardUnitCount),
			datum("GenerationDuration", float64(g.Duration.Microseconds())/1000, types.StandardUnitMilliseconds),
		}
		for axis, value := range g.Axes() {
			data = append(data, datum("Score/"+axis, value, types.StandardUnitNone))
		}

		if err := m.putMetrics(ctx, dimensions, data...); err != nil {
			log.Printf("Failed to record generation metrics: %v", err)
		}
	}()
}

func datum(name string, value float64, unit types.StandardUnit) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
	}
}

// putMetrics sends metrics sharing one set of dimensions to CloudWatch
func (m *Client) putMetrics(_ context.Context, dimensions []types.Dimension, data ...types.MetricDatum) error {
	if !m.Enabled() || m.client == nil {
		return nil
	}

	// Create context with timeout for CloudWatch call
	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	now := aws.Time(time.Now())
	for i := range data {
		data[i].Timestamp = now
		data[i].Dimensions = dimensions
	}

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
