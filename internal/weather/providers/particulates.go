package providers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/inje-weather/internal/common"
	"github.com/i474232898/inje-weather/internal/weather"
)

// DefaultParticulatesURL is the Gangwon air-quality realtime city feed.
const DefaultParticulatesURL = "http://www.airgangwon.go.kr/include/php/json/json_RealCityData.php"

// ParticulatesSource implements weather.Source for the Gangwon realtime air-quality feed.
type ParticulatesSource struct {
	url      string
	district string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewParticulatesSource(cfg HTTPClientConfig, url, district string) *ParticulatesSource {
	return &ParticulatesSource{
		url:      url,
		district: district,
		httpCfg:  cfg,
		circuit:  newBreaker("particulates"),
	}
}

func (p *ParticulatesSource) Name() string {
	return "particulates"
}

func (p *ParticulatesSource) Fetch(ctx context.Context) (weather.RawDocument, error) {
	return fetchDocument(ctx, p.httpCfg, p.circuit, p.url)
}

type airFeed struct {
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	RealCityData []cityData `json:"realcitydata"`
}

// pm values arrive either as numbers or as quoted strings ("-" when the
// sensor is offline), so they are kept raw until the district is found.
type cityData struct {
	CityName string          `json:"cityname"`
	PM10     json.RawMessage `json:"pm10"`
	PM25     json.RawMessage `json:"pm25"`
}

func (p *ParticulatesSource) Parse(doc weather.RawDocument) (weather.Particulates, error) {
	var feed airFeed
	if err := json.Unmarshal(doc.Body, &feed); err != nil {
		return weather.Particulates{}, fmt.Errorf("%w: %s: %v", weather.ErrParse, doc.URL, err)
	}

	for _, c := range feed.RealCityData {
		if common.SameName(c.CityName, p.district) {
			return weather.Particulates{
				PM10: rawFloat(c.PM10),
				PM25: rawFloat(c.PM25),
			}, nil
		}
	}

	return weather.Particulates{}, fmt.Errorf("%w: %s: district %q not listed", weather.ErrParse, doc.URL, p.district)
}

func rawFloat(raw json.RawMessage) *float64 {
	return common.ParseFloat(string(bytes.Trim(raw, `"`)))
}
