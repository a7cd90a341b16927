package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/gorm"
)

// EventRecorder writes audit events for core mutations. Records go through
// the caller's transaction so an event is never persisted without its
// mutation, and vice versa.
type EventRecorder struct{}

func (r *EventRecorder) Record(tx *gorm.DB, actorID uuid.UUID, entityType string, entityID uuid.UUID, action string) error {
	return r.record(tx, actorID, entityType, entityID, action, "", "", "", nil)
}

func (r *EventRecorder) RecordFieldChange(tx *gorm.DB, actorID uuid.UUID, entityType string, entityID uuid.UUID, field, oldValue, newValue string) error {
	return r.record(tx, actorID, entityType, entityID, models.ActionUpdated, field, oldValue, newValue, nil)
}

func (r *EventRecorder) RecordStatusChange(tx *gorm.DB, actorID uuid.UUID, entityType string, entityID uuid.UUID, oldStatus, newStatus string, metadata map[string]interface{}) error {
	return r.record(tx, actorID, entityType, entityID, models.ActionStatusChanged, "status", oldStatus, newStatus, metadata)
}

func (r *EventRecorder) RecordAction(tx *gorm.DB, actorID uuid.UUID, entityType string, entityID uuid.UUID, action string, metadata map[string]interface{}) error {
	return r.record(tx, actorID, entityType, entityID, action, "", "", "", metadata)
}

func (r *EventRecorder) record(tx *gorm.DB, actorID uuid.UUID, entityType string, entityID uuid.UUID, action, field, oldValue, newValue string, metadata map[string]interface{}) error {
	event := models.Event{
		UserID:     actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		event.Metadata = string(raw)
	}
	return tx.Create(&event).Error
}
