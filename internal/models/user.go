package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email                     string `gorm:"uniqueIndex;not null"`
	Password                  string `gorm:"not null" json:"-"`
	Name                      string `gorm:"not null"`
	Phone                     string
	Role                      string `gorm:"default:'user'"`
	LanguagePreference        string `gorm:"default:'en'"` // en | he | es
	EmailNotificationsEnabled bool   `gorm:"default:true"`
	PushNotificationsEnabled  bool   `gorm:"default:false"`
	TokenVersion              int    `gorm:"default:1"`

	GiftCards []GiftCard `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reminders []Reminder `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
