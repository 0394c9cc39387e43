package core

import (
	"time"

	"go.uber.org/zap"
)

// Options carries the settings shared by every service.
type Options struct {
	// Location is the business time zone used for day windows and bill-number years.
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
	// StrictStock fails a sale whose product has no stock row at the branch,
	// instead of logging and skipping the decrement.
	StrictStock bool
	// DefaultStarGoal applies when neither the employee nor the settings store has one.
	DefaultStarGoal int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
