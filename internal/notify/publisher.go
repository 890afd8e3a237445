// Package notify publishes fleet events over MQTT so wallboards and
// other dashboard consumers can react to task and maintenance changes
// without polling. Publishing is best-effort: a broker failure is a
// warning, never a reason to fail the mutation that triggered it.
package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

const publishTimeout = 5 * time.Second

// Publisher pushes fleet events to an MQTT broker. A nil Publisher is
// valid and drops every event, so callers never need to branch on
// whether eventing is configured.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the broker named by MQTT_BROKER_URL. Returns
// nil (eventing disabled) when the variable is unset.
func NewPublisher() (*Publisher, error) {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("avsworklog-api").
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect failed: %v", token.Error())
	}
	return &Publisher{client: client}, nil
}

// TaskTransitionEvent is the wire payload for a task status change.
type TaskTransitionEvent struct {
	TaskID     string             `json:"task_id"`
	AssetID    string             `json:"asset_id"`
	Status     models.TaskStatus  `json:"status"`
	Event      models.EventStatus `json:"event"`
	AuthorName string             `json:"author_name"`
	Timestamp  time.Time          `json:"timestamp"`
}

// PublishTaskTransition announces a task status change on
// fleet/tasks/<task id>/status.
func (p *Publisher) PublishTaskTransition(task models.WorkshopTask, event models.StatusHistoryEvent) {
	if p == nil {
		return
	}
	payload := TaskTransitionEvent{
		TaskID:     task.ID.Hex(),
		AssetID:    task.AssetID.Hex(),
		Status:     task.Status,
		Event:      event.Status,
		AuthorName: event.AuthorName,
		Timestamp:  event.Timestamp,
	}
	p.publish("fleet/tasks/"+task.ID.Hex()+"/status", payload)
}

// MaintenanceEditEvent is the wire payload for a maintenance record edit.
type MaintenanceEditEvent struct {
	AssetID    string    `json:"asset_id"`
	Fields     []string  `json:"fields"`
	AuthorName string    `json:"author_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishMaintenanceEdit announces a record edit on
// fleet/assets/<asset id>/maintenance.
func (p *Publisher) PublishMaintenanceEdit(assetID string, entries []models.MaintenanceHistoryEntry) {
	if p == nil || len(entries) == 0 {
		return
	}
	fields := make([]string, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, string(e.Field))
	}
	payload := MaintenanceEditEvent{
		AssetID:    assetID,
		Fields:     fields,
		AuthorName: entries[0].AuthorName,
		Timestamp:  entries[0].CreatedAt,
	}
	p.publish("fleet/assets/"+assetID+"/maintenance", payload)
}

func (p *Publisher) publish(topic string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Warn("event payload marshal failed")
		return
	}
	token := p.client.Publish(topic, 0, false, raw)
	if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
		log.WithError(token.Error()).WithField("topic", topic).Warn("event publish failed")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
