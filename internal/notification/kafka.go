package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	eventMaintenanceNeeded  = "maintenance_needed"
	eventAssignmentProposed = "assignment_proposed"
)

type event struct {
	Type        string    `json:"type"`
	EquipmentID int64     `json:"equipment_id,omitempty"`
	StaffID     int64     `json:"staff_id,omitempty"`
	BookingID   int64     `json:"booking_id,omitempty"`
	Role        string    `json:"role,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	EmittedAt   time.Time `json:"emitted_at"`
}

// KafkaNotifier publishes scheduling events to a notifications topic,
// consumed by the delivery services outside this core.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (n *KafkaNotifier) NotifyMaintenanceNeeded(ctx context.Context, equipmentID int64, reason string) error {
	return n.publish(ctx, fmt.Sprintf("equipment-%d", equipmentID), event{
		Type:        eventMaintenanceNeeded,
		EquipmentID: equipmentID,
		Reason:      reason,
		EmittedAt:   time.Now().UTC(),
	})
}

func (n *KafkaNotifier) NotifyAssignmentProposed(ctx context.Context, staffID, bookingID int64, role string) error {
	return n.publish(ctx, fmt.Sprintf("staff-%d", staffID), event{
		Type:      eventAssignmentProposed,
		StaffID:   staffID,
		BookingID: bookingID,
		Role:      role,
		EmittedAt: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, key string, ev event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
