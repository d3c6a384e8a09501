package panchangam

import (
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

const defaultProKeralaAPI = "https://www.prokerala.com/api/panchangam/"

const fetchTimeout = 30 * time.Second

// proKeralaDay is the typed view of one day in the source payload.
type proKeralaDay struct {
	Date      string `mapstructure:"date"`
	Tithi     string `mapstructure:"tithi"`
	Nakshatra string `mapstructure:"nakshatra"`
	Festival  string `mapstructure:"festival"`

	Rahukalam  *proKeralaInterval `mapstructure:"rahukalam"`
	Yamagandam *proKeralaInterval `mapstructure:"yamagandam"`
	Kuligai    *proKeralaInterval `mapstructure:"kuligai"`

	Muhurtham []proKeralaWindow `mapstructure:"muhurtham"`

	IsMarriageDay   bool `mapstructure:"is_marriage_day"`
	IsAuspiciousDay bool `mapstructure:"is_auspicious_day"`
}

type proKeralaInterval struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type proKeralaWindow struct {
	Type  string `mapstructure:"type"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// fetchFromProKerala is the network fallback source. The call uses a
// bounded timeout and fails closed; the caller treats an error the
// same as an empty window.
func (s *Service) fetchFromProKerala(start, end time.Time) ([]domain.Panchangam, error) {
	var resp struct {
		Panchangam []map[string]interface{} `json:"panchangam"`
	}

	err := gout.GET(s.apiBase).
		SetQuery(gout.H{
			"start":    start.Format("2006-01-02"),
			"end":      end.Format("2006-01-02"),
			"cal_type": "tamil",
		}).
		SetHeader(gout.H{"User-Agent": "caterbook/1.0"}).
		SetTimeout(fetchTimeout).
		BindJSON(&resp).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "prokerala request")
	}

	days := make([]domain.Panchangam, 0, len(resp.Panchangam))
	for _, raw := range resp.Panchangam {
		day, err := parseProKeralaDay(raw)
		if err != nil {
			zap.L().Warn("skipping unparseable panchangam day", zap.Error(err))
			continue
		}
		days = append(days, *day)
	}
	zap.L().Info("fetched panchangam from network source", zap.Int("days", len(days)))
	return days, nil
}

// parseProKeralaDay maps one raw source day onto the stored model. The
// raw payload is retained verbatim for diagnostics.
func parseProKeralaDay(raw map[string]interface{}) (*domain.Panchangam, error) {
	var src proKeralaDay
	if err := mapstructure.Decode(raw, &src); err != nil {
		return nil, errors.Wrap(err, "decode source day")
	}

	date, err := common.ParseDay(src.Date)
	if err != nil {
		return nil, errors.Wrap(err, "source day date")
	}

	day := &domain.Panchangam{
		Date:      date,
		Tithi:     src.Tithi,
		Nakshatra: src.Nakshatra,
		Festival:  src.Festival,
		// Lunar phase is detected by name: Amavasai marks the new
		// moon tithi, Pournami the full moon.
		IsAmavasai:      strings.Contains(src.Tithi, "Amavasai"),
		IsPournami:      strings.Contains(src.Tithi, "Pournami"),
		IsMarriageDay:   src.IsMarriageDay,
		IsAuspiciousDay: src.IsAuspiciousDay,
		AuspiciousTimes: []domain.AuspiciousTime{},
	}

	if src.Rahukalam != nil {
		day.Rahukalam = &domain.TimeRange{StartTime: src.Rahukalam.Start, EndTime: src.Rahukalam.End}
	}
	if src.Yamagandam != nil {
		day.Yamagandam = &domain.TimeRange{StartTime: src.Yamagandam.Start, EndTime: src.Yamagandam.End}
	}
	if src.Kuligai != nil {
		day.Kuligai = &domain.TimeRange{StartTime: src.Kuligai.Start, EndTime: src.Kuligai.End}
	}

	for _, m := range src.Muhurtham {
		windowType := m.Type
		if windowType == "" {
			windowType = domain.WindowTypeGeneral
		}
		day.AuspiciousTimes = append(day.AuspiciousTimes, domain.AuspiciousTime{
			Type:      windowType,
			StartTime: m.Start,
			EndTime:   m.End,
		})
	}

	day.RawData, _ = jsoniter.MarshalToString(raw)
	return day, nil
}
