package models

import "time"

// StateEvent - уведомление об изменении кеша
type StateEvent struct {
	Module   string    `json:"module"`
	Mutation string    `json:"mutation"`
	ID       int64     `json:"id,omitempty"`
	At       time.Time `json:"at"`
}
