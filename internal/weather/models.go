package weather

import (
	"time"

	"github.com/segmentio/encoding/json"
)

// Optional holds a source result that may be absent because its fetch or
// parse failed. Absent values serialize as JSON null.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether the value is set.
func (o Optional[T]) Present() bool {
	return o.ok
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// WindDirection is a named and/or angular wind direction. Either part may be missing.
type WindDirection struct {
	Name  *string  `json:"name"`
	Angle *float64 `json:"angle"`
}

// AWSObservation is one minute row from an automatic weather station table.
type AWSObservation struct {
	Timestamp        int64         `json:"timestamp"` // unix millis
	RainfallPerDay   *float64      `json:"rainfall_per_day"`
	Temperature      *float64      `json:"temperature"`
	WindDirection    WindDirection `json:"wind_direction"`
	WindSpeed        *float64      `json:"wind_speed"`
	Humidity         *float64      `json:"humidity"`
	SeaLevelPressure *float64      `json:"sea_level_pressure"`
}

// AWSStation groups the recent observations of one station.
type AWSStation struct {
	Location string           `json:"location"`
	Source   string           `json:"source"`
	Data     []AWSObservation `json:"data"`
}

// Forecast is the current-conditions block of a town forecast page.
type Forecast struct {
	Location      string        `json:"location"`
	Timestamp     int64         `json:"timestamp"` // unix millis
	Temperature   *float64      `json:"temperature"`
	Humidity      *float64      `json:"humidity"`
	WindDirection WindDirection `json:"wind_direction"`
	WindSpeed     *float64      `json:"wind_speed"`
}

// ForestFire is the forest-fire danger index for the configured district.
type ForestFire struct {
	Value *float64 `json:"value"`
}

// Particulates holds fine dust concentrations for the configured district.
type Particulates struct {
	PM10 *float64 `json:"pm10"`
	PM25 *float64 `json:"pm25"`
}

// Snapshot is one complete aggregated reading across all sources.
// AWS and Forecast keep one slot per configured source, in configuration order.
type Snapshot struct {
	Timestamp    time.Time
	AWS          []Optional[AWSStation]
	Forecast     []Optional[Forecast]
	ForestFire   Optional[ForestFire]
	Particulates Optional[Particulates]
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timestamp    int64                  `json:"timestamp"`
		AWS          []Optional[AWSStation] `json:"aws"`
		Forecast     []Optional[Forecast]   `json:"forecast"`
		ForestFire   Optional[ForestFire]   `json:"forest_fire"`
		Particulates Optional[Particulates] `json:"particulates"`
	}{
		Timestamp:    s.Timestamp.UnixMilli(),
		AWS:          s.AWS,
		Forecast:     s.Forecast,
		ForestFire:   s.ForestFire,
		Particulates: s.Particulates,
	})
}

// PageResult is the response envelope for one indexed snapshot.
type PageResult struct {
	Current int       `json:"current"`
	Length  int       `json:"length"`
	Data    *Snapshot `json:"data"`
}
