package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxLoginHistory caps the number of remembered (ip, user-agent) pairs.
const MaxLoginHistory = 5

type LoginEntry struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Date      time.Time `json:"date"`
}

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Email        string         `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"size:100;not null"`
	LoginHistory []LoginEntry   `json:"-" gorm:"serializer:json"`
	CreatedAt    time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// KnowsDevice reports whether the (ip, userAgent) pair is already in the history.
func (u *User) KnowsDevice(ip, userAgent string) bool {
	for _, entry := range u.LoginHistory {
		if entry.IP == ip && entry.UserAgent == userAgent {
			return true
		}
	}
	return false
}

// RememberDevice prepends a login entry, keeping at most MaxLoginHistory items.
func (u *User) RememberDevice(ip, userAgent string, at time.Time) {
	history := make([]LoginEntry, 0, MaxLoginHistory)
	history = append(history, LoginEntry{IP: ip, UserAgent: userAgent, Date: at})
	for _, entry := range u.LoginHistory {
		if len(history) == MaxLoginHistory {
			break
		}
		history = append(history, entry)
	}
	u.LoginHistory = history
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Profile() UserProfile {
	p := UserProfile{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
	if u.DeletedAt.Valid {
		at := u.DeletedAt.Time
		p.DeletedAt = &at
	}
	return p
}

// UserSummary is the public-safe projection of a user.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserProfile adds lifecycle fields to the summary; used in listings.
type UserProfile struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}
