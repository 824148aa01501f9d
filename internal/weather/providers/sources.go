package providers

import (
	"time"

	"github.com/i474232898/inje-weather/internal/weather"
)

// DefaultStations are the AWS stations in and around Inje county.
var DefaultStations = []Station{
	{ID: 321, Name: "원통"},
	{ID: 594, Name: "서화"},
	{ID: 595, Name: "진부령"},
	{ID: 320, Name: "향로봉"},
	{ID: 211, Name: "인제"},
	{ID: 518, Name: "해안"},
}

// DefaultForecastPoints are the town forecast areas served.
var DefaultForecastPoints = []ForecastPoint{
	{Code: 4281032000, Name: "원통"},
	{Code: 4282034000, Name: "수동"},
}

// Set describes which upstream sources to build.
type Set struct {
	Stations        []Station
	ForecastPoints  []ForecastPoint
	ForestFireURL   string
	ParticulatesURL string
	District        string
	Location        *time.Location
}

// Build creates one source per configured upstream. An empty URL leaves that
// source unset, and its snapshot field is always absent.
func Build(cfg HTTPClientConfig, set Set) weather.Sources {
	var sources weather.Sources

	for _, st := range set.Stations {
		sources.AWS = append(sources.AWS, NewAWSSource(cfg, st, set.Location))
	}
	for _, pt := range set.ForecastPoints {
		sources.Forecast = append(sources.Forecast, NewForecastSource(cfg, pt, set.Location))
	}
	if set.ForestFireURL != "" {
		sources.ForestFire = NewForestFireSource(cfg, set.ForestFireURL, set.District)
	}
	if set.ParticulatesURL != "" {
		sources.Particulates = NewParticulatesSource(cfg, set.ParticulatesURL, set.District)
	}
	return sources
}
