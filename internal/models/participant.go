package models

import "time"

// EventParticipant links a subscribed user to an event. The pair is unique.
type EventParticipant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"eventId" gorm:"not null;uniqueIndex:idx_event_participant"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_event_participant;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
