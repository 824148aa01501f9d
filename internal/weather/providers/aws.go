package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/inje-weather/internal/common"
	"github.com/i474232898/inje-weather/internal/weather"
)

const awsURLFormat = "https://www.weather.go.kr/cgi-bin/aws/nph-aws_txt_min_cal_test?0&0&MINDB_1M&%d&a&M"

// Station identifies an automatic weather station (AWS) by its KMA number.
type Station struct {
	ID   int
	Name string
}

// AWSSource implements weather.Source for the KMA per-minute AWS table of one station.
type AWSSource struct {
	station Station
	url     string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewAWSSource creates a source for station. loc is the zone the table's
// HH:MM column is expressed in.
func NewAWSSource(cfg HTTPClientConfig, station Station, loc *time.Location) *AWSSource {
	return &AWSSource{
		station: station,
		url:     fmt.Sprintf(awsURLFormat, station.ID),
		loc:     loc,
		httpCfg: cfg,
		circuit: newBreaker(fmt.Sprintf("aws-%d", station.ID)),
	}
}

func (p *AWSSource) Name() string {
	return fmt.Sprintf("aws:%d", p.station.ID)
}

func (p *AWSSource) Fetch(ctx context.Context) (weather.RawDocument, error) {
	return fetchDocument(ctx, p.httpCfg, p.circuit, p.url)
}

// AWS table columns.
const (
	colTime          = 0
	colRainfallDay   = 7
	colTemperature   = 8
	colWindAngle     = 12
	colWindCardinal  = 13
	colWindSpeed     = 14
	colHumidity      = 15
	colSeaLvPressure = 16
)

// Parse reads the minute rows of the station table. The first row is the
// header. Rows with a malformed time are skipped; rows without a temperature
// are kept only when they lie in the future.
func (p *AWSSource) Parse(doc weather.RawDocument) (weather.AWSStation, error) {
	root, err := parseHTML(doc)
	if err != nil {
		return weather.AWSStation{}, err
	}

	rows := selectChildPath(root, "table", "tbody", "tr", "td", "table", "tbody", "tr")
	if len(rows) == 0 {
		return weather.AWSStation{}, fmt.Errorf("%w: %s: no observation table", weather.ErrParse, doc.URL)
	}

	now := doc.FetchedAt.In(p.loc)
	data := make([]weather.AWSObservation, 0, len(rows)-1)
	for _, tr := range rows[1:] {
		td := childElements(tr, "td")
		if len(td) <= colWindSpeed {
			continue
		}
		ts, ok := common.ClockTime(textOf(td[colTime]), now)
		if !ok {
			continue
		}

		obs := weather.AWSObservation{
			Timestamp:      ts.UnixMilli(),
			RainfallPerDay: common.ParseFloat(textOf(td[colRainfallDay])),
			Temperature:    common.ParseFloat(textOf(td[colTemperature])),
			WindDirection: weather.WindDirection{
				Angle: common.ParseFloat(textOf(td[colWindAngle])),
				Name:  translateCardinal(textOf(td[colWindCardinal])),
			},
			WindSpeed: common.ParseFloat(textOf(td[colWindSpeed])),
		}
		if len(td) > colHumidity {
			obs.Humidity = common.ParseFloat(textOf(td[colHumidity]))
		}
		if len(td) > colSeaLvPressure {
			obs.SeaLevelPressure = common.ParseFloat(textOf(td[colSeaLvPressure]))
		}

		if obs.Temperature != nil || ts.After(now) {
			data = append(data, obs)
		}
	}

	return weather.AWSStation{
		Location: p.station.Name,
		Source:   p.url,
		Data:     data,
	}, nil
}

var cardinalNames = map[string]string{
	"N":   "북",
	"NNE": "북북동",
	"NE":  "북동",
	"ENE": "동북동",
	"E":   "동",
	"ESE": "동남동",
	"SE":  "남동",
	"SSE": "남남동",
	"S":   "남",
	"SSW": "남남서",
	"SW":  "남서",
	"WSW": "서남서",
	"W":   "서",
	"WNW": "서북서",
	"NW":  "북서",
	"NNW": "북북서",
}

// translateCardinal maps a 16-point compass abbreviation to its Korean name.
func translateCardinal(point string) *string {
	name, ok := cardinalNames[strings.ToUpper(strings.TrimSpace(point))]
	if !ok {
		return nil
	}
	return &name
}
