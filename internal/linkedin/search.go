package linkedin

import (
	"fmt"
	"net/url"
	"reflect"
	"time"
)

const (
	searchURL = "https://www.linkedin.com/jobs/search/"

	// ShortLookback is the normal search window for hourly runs.
	ShortLookback = time.Hour
	// LongLookback covers the overnight gap once per day.
	LongLookback = 9 * time.Hour
)

type SearchParams struct {
	// lnparam is a custom tag for reflect. Please see buildParams below.
	Keywords        string `lnparam:"keywords" mapstructure:"keywords"`
	GeoID           string `lnparam:"geoId" mapstructure:"geo-id"`
	Distance        uint   `lnparam:"distance" mapstructure:"distance"`
	SortBy          string `lnparam:"sortBy" mapstructure:"sort-by"`
	SpellCorrection bool   `lnparam:"spellCorrectionEnabled" mapstructure:"spell-correction"`

	// OvernightHour selects the run that gets the long lookback window.
	// It is not a query parameter.
	OvernightHour string `lnparam:"-" mapstructure:"overnight-hour"`
	// Lookback is rendered as f_TPR=r<seconds>, not as a direct parameter.
	Lookback time.Duration `lnparam:"-" mapstructure:"-"`
}

// URL renders the search parameters as a job search results URL.
func (p *SearchParams) URL() string {
	q := buildParams(p)

	q.Set("alertAction", "viewjobs")
	q.Set("origin", "JOB_SEARCH_PAGE_JOB_FILTER")

	lookback := p.Lookback
	if lookback <= 0 {
		lookback = ShortLookback
	}
	q.Set("f_TPR", fmt.Sprintf("r%d", int(lookback.Seconds())))

	return searchURL + "?" + q.Encode()
}

// LookbackWindow picks the search window for this run. The scheduler exports
// the current hour; the configured overnight hour gets the long window to
// cover the gap since the previous day's last run.
func LookbackWindow(runHour, overnightHour string) time.Duration {
	if runHour != "" && runHour == overnightHour {
		return LongLookback
	}
	return ShortLookback
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("lnparam")
		if key == "" || key == "-" {
			continue
		}

		value := reflect.ValueOf(params).Elem().FieldByIndex(field.Index)
		switch field.Type.Kind() {
		case reflect.Bool:
			if value.Bool() {
				q.Set(key, "true")
			}
		default:
			rendered := fmt.Sprintf("%v", value.Interface())
			if rendered != "" && rendered != "0" {
				q.Set(key, rendered)
			}
		}
	}

	return q
}
