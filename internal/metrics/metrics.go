package metrics

import (
	"log/slog"
	"net/http"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/marocz/scoreboard/internal/poll"
	"github.com/marocz/scoreboard/internal/rotation"
	"github.com/marocz/scoreboard/pkg/types"
)

const namespace = "scoreboard"

// Source is the read side of a display session.
type Source interface {
	PollStats() poll.Stats
	Rotations() uint64
	Rotation() rotation.State
	Mode() types.RankingMode
}

// Families builds the metric families for one scrape, sorted by name.
// clients may be nil when no WebSocket hub is running.
func Families(src Source, clients func() int) []*dto.MetricFamily {
	st := src.PollStats()
	rs := src.Rotation()
	mode := src.Mode()

	fams := []*dto.MetricFamily{
		counter("poll_attempts_total", "Polls started.", float64(st.Attempts)),
		{
			Name: proto.String(namespace + "_poll_outcomes_total"),
			Help: proto.String("Completed polls by outcome."),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{
				counterMetric(float64(st.Committed), "outcome", poll.OutcomeCommitted.String()),
				counterMetric(float64(st.Unchanged), "outcome", poll.OutcomeUnchanged.String()),
				counterMetric(float64(st.Stale), "outcome", poll.OutcomeStale.String()),
				counterMetric(float64(st.Empty), "outcome", poll.OutcomeEmpty.String()),
				counterMetric(float64(st.Failed), "outcome", poll.OutcomeFailed.String()),
			},
		},
		counter("rotations_total", "Active page changes, automatic or manual.", float64(src.Rotations())),
		gauge("rotation_paused", "1 while automatic rotation is paused.", boolValue(rs.Paused)),
		gauge("optional_page_included", "1 while the optional page is in the rotation cycle.", boolValue(rs.IncludeOptional)),
		{
			Name: proto.String(namespace + "_active_page"),
			Help: proto.String("1 for the page currently displayed."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				gaugeMetric(1, "page", string(rs.Active)),
			},
		},
		{
			Name: proto.String(namespace + "_ranking_mode"),
			Help: proto.String("1 for the active ranking mode."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				gaugeMetric(boolValue(mode == types.ModeTotal), "mode", string(types.ModeTotal)),
				gaugeMetric(boolValue(mode == types.ModePercent), "mode", string(types.ModePercent)),
			},
		},
	}
	if clients != nil {
		fams = append(fams, gauge("ws_clients", "Connected WebSocket clients.", float64(clients())))
	}

	sort.Slice(fams, func(i, j int) bool { return fams[i].GetName() < fams[j].GetName() })
	return fams
}

// Handler serves GET /metrics in the Prometheus text format.
func Handler(src Source, clients func() int) http.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range Families(src, clients) {
			if err := enc.Encode(mf); err != nil {
				slog.Warn("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{counterMetric(v)},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{gaugeMetric(v)},
	}
}

func counterMetric(v float64, labels ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(labels), Counter: &dto.Counter{Value: proto.Float64(v)}}
}

func gaugeMetric(v float64, labels ...string) *dto.Metric {
	return &dto.Metric{Label: labelPairs(labels), Gauge: &dto.Gauge{Value: proto.Float64(v)}}
}

// labelPairs turns name, value, name, value... into label pairs.
func labelPairs(kv []string) []*dto.LabelPair {
	if len(kv) == 0 {
		return nil
	}
	out := make([]*dto.LabelPair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, &dto.LabelPair{Name: proto.String(kv[i]), Value: proto.String(kv[i+1])})
	}
	return out
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
