package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarURL    string
	CreatedAt    time.Time
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}
