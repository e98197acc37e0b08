package events

import "socialweb/models"

// Fanout раздает событие всем получателям по порядку
type Fanout []Sink

func (f Fanout) Notify(event models.StateEvent) {
	for _, s := range f {
		if s != nil {
			s.Notify(event)
		}
	}
}
