package providers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html"

	"github.com/i474232898/inje-weather/internal/common"
	"github.com/i474232898/inje-weather/internal/weather"
)

const forecastURLFormat = "https://www.weather.go.kr/plus/rest/land/timeseries-body.jsp?code=%d&unit=m%%2Fs"

var (
	temperatureRe = regexp.MustCompile(`([-+]?\d*\.?\d)℃$`)
	humidityRe    = regexp.MustCompile(`([-+]?\d*\.?\d)%$`)
	windRe        = regexp.MustCompile(`(.*) ([-+]?\d*\.?\d)m/s$`)
)

// ForecastPoint identifies a town forecast area by its administrative code.
type ForecastPoint struct {
	Code int64
	Name string
}

// ForecastSource implements weather.Source for the current-conditions block
// of a KMA town forecast page.
type ForecastSource struct {
	point   ForecastPoint
	url     string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewForecastSource(cfg HTTPClientConfig, point ForecastPoint, loc *time.Location) *ForecastSource {
	return &ForecastSource{
		point:   point,
		url:     fmt.Sprintf(forecastURLFormat, point.Code),
		loc:     loc,
		httpCfg: cfg,
		circuit: newBreaker(fmt.Sprintf("forecast-%d", point.Code)),
	}
}

func (p *ForecastSource) Name() string {
	return "forecast:" + strconv.FormatInt(p.point.Code, 10)
}

func (p *ForecastSource) Fetch(ctx context.Context) (weather.RawDocument, error) {
	return fetchDocument(ctx, p.httpCfg, p.circuit, p.url)
}

// Parse reads temperature, wind and humidity from the last four <dd> items
// of the first "div.now_weather1 > dl" and the observation time from
// "p.MB5 > span:nth-child(2)".
func (p *ForecastSource) Parse(doc weather.RawDocument) (weather.Forecast, error) {
	root, err := parseHTML(doc)
	if err != nil {
		return weather.Forecast{}, err
	}

	dls := selectChildPath(root, "div.now_weather1", "dl")
	if len(dls) == 0 {
		return weather.Forecast{}, fmt.Errorf("%w: %s: no current conditions block", weather.ErrParse, doc.URL)
	}
	dd := selectDescendants(dls[0], "dd")
	if len(dd) < 4 {
		return weather.Forecast{}, fmt.Errorf("%w: %s: expected at least 4 items, got %d", weather.ErrParse, doc.URL, len(dd))
	}
	offset := len(dd) - 4

	ts, ok := p.observedAt(root, doc.FetchedAt.In(p.loc))
	if !ok {
		return weather.Forecast{}, fmt.Errorf("%w: %s: no observation time", weather.ErrParse, doc.URL)
	}

	dir, speed := parseWind(textOf(dd[offset+1]))
	return weather.Forecast{
		Location:      p.point.Name,
		Timestamp:     ts.UnixMilli(),
		Temperature:   matchFloat(temperatureRe, textOf(dd[offset])),
		Humidity:      matchFloat(humidityRe, textOf(dd[offset+2])),
		WindDirection: dir,
		WindSpeed:     speed,
	}, nil
}

func (p *ForecastSource) observedAt(root *html.Node, now time.Time) (time.Time, bool) {
	for _, span := range selectChildPath(root, "p.MB5", "span") {
		if elementIndex(span) == 2 {
			return common.ClockTime(textOf(span), now)
		}
	}
	return time.Time{}, false
}

func matchFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	return common.ParseFloat(m[1])
}

// parseWind splits "<direction> <speed>m/s". The direction has no angle on this page.
func parseWind(text string) (weather.WindDirection, *float64) {
	m := windRe.FindStringSubmatch(common.CollapseSpace(text))
	if m == nil {
		return weather.WindDirection{}, nil
	}
	name := m[1]
	return weather.WindDirection{Name: &name}, common.ParseFloat(m[2])
}
