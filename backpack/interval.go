package backpack

// KlineInterval is the granularity of a candlestick. Only the constants below are valid.
type KlineInterval string

const (
	OneMinute      KlineInterval = "1m"
	ThreeMinutes   KlineInterval = "3m"
	FiveMinutes    KlineInterval = "5m"
	FifteenMinutes KlineInterval = "15m"
	ThirtyMinutes  KlineInterval = "30m"
	OneHour        KlineInterval = "1h"
	TwoHours       KlineInterval = "2h"
	FourHours      KlineInterval = "4h"
	SixHours       KlineInterval = "6h"
	EightHours     KlineInterval = "8h"
	TwelveHours    KlineInterval = "12h"
	OneDay         KlineInterval = "1d"
	ThreeDays      KlineInterval = "3d"
	OneWeek        KlineInterval = "1w"
	OneMonth       KlineInterval = "1month"
)

var klineIntervals = []KlineInterval{
	OneMinute, ThreeMinutes, FiveMinutes, FifteenMinutes, ThirtyMinutes,
	OneHour, TwoHours, FourHours, SixHours, EightHours, TwelveHours,
	OneDay, ThreeDays, OneWeek, OneMonth,
}

// KlineIntervals returns all supported intervals, shortest first.
func KlineIntervals() []KlineInterval {
	ret := make([]KlineInterval, len(klineIntervals))
	copy(ret, klineIntervals)
	return ret
}

// ParseKlineInterval returns the interval named by s, or a *ValidationError.
func ParseKlineInterval(s string) (KlineInterval, error) {
	i := KlineInterval(s)
	if !i.Valid() {
		return "", newValidationError("interval", "unknown kline interval "+s)
	}
	return i, nil
}

func (i KlineInterval) Valid() bool {
	for _, k := range klineIntervals {
		if i == k {
			return true
		}
	}
	return false
}

func (i KlineInterval) String() string {
	return string(i)
}
