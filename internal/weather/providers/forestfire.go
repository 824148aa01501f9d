package providers

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/i474232898/inje-weather/internal/common"
	"github.com/i474232898/inje-weather/internal/weather"
)

// DefaultForestFireURL is the national forest-fire danger grade page for Inje county.
const DefaultForestFireURL = "http://forestfire.nifos.go.kr/mobile/jsp/fireGrade.jsp?cd=42&cdName=%EA%B0%95%EC%9B%90%EB%8F%84&subCd=42810&subCdName=%EC%9D%B8%EC%A0%9C%EA%B5%B0"

// ForestFireSource implements weather.Source for the forest-fire danger grade table.
type ForestFireSource struct {
	url      string
	district string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewForestFireSource(cfg HTTPClientConfig, url, district string) *ForestFireSource {
	return &ForestFireSource{
		url:      url,
		district: district,
		httpCfg:  cfg,
		circuit:  newBreaker("forestfire"),
	}
}

func (p *ForestFireSource) Name() string {
	return "forestfire"
}

func (p *ForestFireSource) Fetch(ctx context.Context) (weather.RawDocument, error) {
	return fetchDocument(ctx, p.httpCfg, p.circuit, p.url)
}

// Parse finds the (location, rank, value) row of the configured district
// inside div.greenTable.
func (p *ForestFireSource) Parse(doc weather.RawDocument) (weather.ForestFire, error) {
	root, err := parseHTML(doc)
	if err != nil {
		return weather.ForestFire{}, err
	}

	for _, table := range selectDescendants(root, "div.greenTable") {
		for _, tr := range selectDescendants(table, "tr") {
			td := childElements(tr, "td")
			if len(td) < 3 {
				continue
			}
			if common.SameName(textOf(td[0]), p.district) {
				return weather.ForestFire{Value: common.ParseFloat(textOf(td[2]))}, nil
			}
		}
	}

	return weather.ForestFire{}, fmt.Errorf("%w: %s: district %q not listed", weather.ErrParse, doc.URL, p.district)
}
