package providers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/inje-weather/internal/weather"
)

const forecastPage = `<html><body>
<p class="MB5"><span>인제군 원통</span><span>2024.05.01.(수) 10:00 발표</span></p>
<div class="now_weather1 clearfix">
  <dl>
    <dt>현재</dt><dd>맑음</dd>
    <dt>기온</dt><dd> 12.5℃ </dd>
    <dt>바람</dt><dd>북서  3.2m/s</dd>
    <dt>습도</dt><dd>55%</dd>
    <dt>강수</dt><dd>0mm</dd>
  </dl>
</div>
</body></html>`

func TestForecastSourceParse(t *testing.T) {
	src := NewForecastSource(DefaultHTTPConfig(nil, nil), ForecastPoint{Code: 4281032000, Name: "원통"}, kst)
	fetched := time.Date(2024, 5, 1, 10, 12, 0, 0, kst)

	f, err := src.Parse(weather.RawDocument{URL: src.url, Body: []byte(forecastPage), FetchedAt: fetched})
	require.NoError(t, err)

	assert.Equal(t, "원통", f.Location)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, kst).UnixMilli(), f.Timestamp)
	require.NotNil(t, f.Temperature)
	assert.Equal(t, 12.5, *f.Temperature)
	require.NotNil(t, f.WindDirection.Name)
	assert.Equal(t, "북서", *f.WindDirection.Name)
	assert.Nil(t, f.WindDirection.Angle)
	assert.Equal(t, 3.2, *f.WindSpeed)
	assert.Equal(t, 55.0, *f.Humidity)
}

func TestForecastSourceParseErrors(t *testing.T) {
	src := NewForecastSource(DefaultHTTPConfig(nil, nil), ForecastPoint{Code: 4282034000, Name: "수동"}, kst)

	tests := []struct {
		name string
		body string
	}{
		{name: "no block", body: `<html><body></body></html>`},
		{name: "too few items", body: `<p class="MB5"><span>a</span><span>10:00</span></p><div class="now_weather1"><dl><dd>1℃</dd><dd>55%</dd></dl></div>`},
		{name: "no time", body: `<div class="now_weather1"><dl><dd>1℃</dd><dd>동 1m/s</dd><dd>55%</dd><dd>0</dd></dl></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Parse(weather.RawDocument{Body: []byte(tt.body), FetchedAt: time.Now()})
			require.Error(t, err)
			assert.True(t, errors.Is(err, weather.ErrParse))
		})
	}
}

func TestParseWind(t *testing.T) {
	dir, speed := parseWind("남남동 0.7m/s")
	require.NotNil(t, dir.Name)
	assert.Equal(t, "남남동", *dir.Name)
	assert.Equal(t, 0.7, *speed)

	dir, speed = parseWind("-")
	assert.Nil(t, dir.Name)
	assert.Nil(t, speed)
}

func TestMatchFloat(t *testing.T) {
	assert.Equal(t, -3.5, *matchFloat(temperatureRe, "-3.5℃"))
	assert.Equal(t, 90.0, *matchFloat(humidityRe, " 90% "))
	assert.Nil(t, matchFloat(temperatureRe, "정보없음"))
}
