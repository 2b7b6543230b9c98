// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

type Status string

const (
	Online  Status = "online"
	Offline Status = "offline"
)

// User is a chat participant. Users are immutable once seeded.
type User struct {
	ID     string
	Name   string
	Avatar string
	Status Status // empty when presence is unknown
}

func (u User) IsOnline() bool {
	return u.Status == Online
}
