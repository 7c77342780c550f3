package utils

import (
	"github.com/pkg/errors"
	"time"
)

const TimeLayout = "2006-01-02 15:04:05"

var beijing = time.FixedZone("Beijing Time", int((8 * time.Hour).Seconds()))

func ParseStartEndTime(start, end string) (startTime, endTime time.Time, err error) {
	startTime, err = time.ParseInLocation(TimeLayout, start, beijing)
	if err != nil {
		err = errors.Wrapf(err, "error start format: %s", start)
		return
	}
	endTime, err = time.ParseInLocation(TimeLayout, end, beijing)
	if err != nil {
		err = errors.Wrapf(err, "error end format: %s", end)
		return
	}
	if !startTime.Before(endTime) {
		err = errors.Errorf("start time(%s) must before end time(%s)", startTime.String(), endTime.String())
		return
	}
	return
}

// ParseOptionalStartEndTime allows both times to be empty, which means no range.
func ParseOptionalStartEndTime(start, end string) (startTime, endTime time.Time, err error) {
	if start == "" && end == "" {
		return
	}
	return ParseStartEndTime(start, end)
}
