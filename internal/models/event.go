package models

import (
	"time"

	"gorm.io/gorm"
)

const MaxTitleLength = 200

type Event struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	Title        string             `json:"title" gorm:"size:200;not null"`
	Description  *string            `json:"description" gorm:"type:text"`
	Date         time.Time          `json:"date" gorm:"not null"`
	CreatedBy    uint               `json:"createdBy" gorm:"not null;index"`
	PosterKey    *string            `json:"posterKey,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt     `json:"deletedAt" gorm:"index"`
	Creator      *User              `json:"-" gorm:"foreignKey:CreatedBy"`
	Participants []EventParticipant `json:"-" gorm:"foreignKey:EventID"`
}

// SubscriberIDs returns participant user ids in storage order.
func (e *Event) SubscriberIDs() []uint {
	ids := make([]uint, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// View projects the event for API responses.
func (e *Event) View() EventView {
	v := EventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		PosterKey:   e.PosterKey,
		Subscribers: e.SubscriberIDs(),
	}
	v.ParticipantsCount = len(v.Subscribers)
	if e.DeletedAt.Valid {
		at := e.DeletedAt.Time
		v.DeletedAt = &at
	}
	if e.Creator != nil {
		s := e.Creator.Summary()
		v.Creator = &s
	}
	return v
}

type EventView struct {
	ID                uint         `json:"id"`
	Title             string       `json:"title"`
	Description       *string      `json:"description"`
	Date              time.Time    `json:"date"`
	CreatedBy         uint         `json:"createdBy"`
	DeletedAt         *time.Time   `json:"deletedAt"`
	PosterKey         *string      `json:"posterKey,omitempty"`
	Creator           *UserSummary `json:"creator,omitempty"`
	Subscribers       []uint       `json:"subscribers"`
	ParticipantsCount int          `json:"participantsCount"`
}

// EventSummary is the short form returned by restore.
type EventSummary struct {
	ID    uint      `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

func (e *Event) Summary() EventSummary {
	return EventSummary{ID: e.ID, Title: e.Title, Date: e.Date}
}
