package uuid

import (
	"github.com/google/uuid"

	"ladder"
)

type IDService struct{}

func (ids *IDService) NewID() ladder.ID {
	return uuid.New()
}

func (ids *IDService) NewIDFromString(id string) (ladder.ID, error) {
	return uuid.Parse(id)
}
