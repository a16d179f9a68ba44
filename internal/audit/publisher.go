// Package audit emits every validation result as a structured compliance
// record. The record is produced here; external sinks (Redis stream
// consumers, the MQTT compliance topic) persist it.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// Record is the audit payload written for every validation result.
type Record struct {
	AuditID        string             `json:"auditId"`
	Phase          string             `json:"phase"`
	IsValid        bool               `json:"isValid"`
	RuleViolations []models.Violation `json:"ruleViolations"`
	Timestamp      time.Time          `json:"timestamp"`
	RequestSummary string             `json:"requestSummary"`
}

type Publisher struct {
	redisClient *redis.Client
	stream      string
	mqttClient  mqtt.Client
	mqttTopic   string
	logger      *zap.Logger
}

// NewPublisher creates an audit publisher over a Redis stream. MQTT fan-out
// is attached separately when enabled.
func NewPublisher(redisClient *redis.Client, stream string, logger *zap.Logger) *Publisher {
	return &Publisher{
		redisClient: redisClient,
		stream:      stream,
		logger:      logger,
	}
}

// AttachMQTT connects the publisher to the compliance MQTT topic.
func (p *Publisher) AttachMQTT(cfg config.MQTTConfig) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	p.mqttClient = client
	p.mqttTopic = cfg.Topic
	return nil
}

// Publish writes the audit record for one validation result. Sink failures
// are logged but never fail the quote: the record always lands in the
// structured log at minimum.
func (p *Publisher) Publish(ctx context.Context, phase, requestSummary string, result models.ValidationResult) {
	record := Record{
		AuditID:        result.AuditID,
		Phase:          phase,
		IsValid:        result.IsValid,
		RuleViolations: append(append([]models.Violation{}, result.Errors...), result.Warnings...),
		Timestamp:      time.Now().UTC(),
		RequestSummary: requestSummary,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		p.logger.Error("Failed to marshal audit record", zap.Error(err), zap.String("audit_id", record.AuditID))
		return
	}

	p.logger.Info("Validation audit record",
		zap.String("audit_id", record.AuditID),
		zap.String("phase", phase),
		zap.Bool("is_valid", result.IsValid),
		zap.Int("violations", len(record.RuleViolations)),
	)

	if p.redisClient != nil {
		err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]interface{}{
				"data":      string(payload),
				"timestamp": record.Timestamp.Unix(),
			},
		}).Err()
		if err != nil {
			p.logger.Error("Failed to publish audit record to stream",
				zap.Error(err),
				zap.String("stream", p.stream),
				zap.String("audit_id", record.AuditID),
			)
		}
	}

	if p.mqttClient != nil {
		token := p.mqttClient.Publish(p.mqttTopic, 1, false, payload)
		token.Wait()
		if token.Error() != nil {
			p.logger.Error("Failed to publish audit record to MQTT",
				zap.Error(token.Error()),
				zap.String("topic", p.mqttTopic),
				zap.String("audit_id", record.AuditID),
			)
		}
	}
}

// Close disconnects the MQTT client when attached.
func (p *Publisher) Close() {
	if p.mqttClient != nil {
		p.mqttClient.Disconnect(250)
	}
}
