package types

import (
	jsonStd "encoding/json"
	"reflect"
	"strconv"
	"time"
)

// FormatMilli is the timestamp layout of every platform record.
const (
	FormatMilli = "2006-01-02T15:04:05.000Z"
)

// TimeMilli is a UTC timestamp with millisecond precision. The platform
// sends either FormatMilli strings, RFC3339 strings or epoch milliseconds.
type TimeMilli struct {
	Time  time.Time
	Valid bool
}

var utc = time.FixedZone("UTC", 0)

func ParseTimeMilli(s string) (time.Time, error) {
	t, err := time.ParseInLocation(FormatMilli, s, utc)
	if err != nil {
		return time.ParseInLocation(time.RFC3339Nano, s, utc)
	}
	return t, err
}

func NewTimeMilli(t time.Time) TimeMilli {
	return TimeMilli{Time: t.UTC().Truncate(time.Millisecond), Valid: true}
}

func TimeMilliNow() TimeMilli {
	return NewTimeMilli(time.Now())
}

func MustParseMilli(s string) TimeMilli {
	t, err := ParseTimeMilli(s)
	if err != nil {
		panic(err)
	}
	return NewTimeMilli(t)
}

func (t TimeMilli) String() string {
	return t.Time.UTC().Format(FormatMilli)
}

func (t TimeMilli) Before(u TimeMilli) bool {
	return t.Time.Before(u.Time)
}

func (t TimeMilli) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeMilli) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		if tt, err := ParseTimeMilli(v); err == nil {
			*t = NewTimeMilli(tt)
			return nil
		}
	case float64:
		*t = NewTimeMilli(time.UnixMilli(int64(v)))
		return nil
	case nil:
		*t = TimeMilli{}
		return nil
	}
	return &jsonStd.UnmarshalTypeError{Value: "time", Type: reflect.TypeOf(v)}
}
