package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GameCollector reports contract activity to Prometheus.
type GameCollector struct {
	gamesCreated  prometheus.Counter
	gamesJoined   prometheus.Counter
	joinsDenied   prometheus.Counter
	moves         *prometheus.CounterVec
	callsRejected *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
}

// interface check
var _ GameMetrics = (*GameCollector)(nil)

// NewGameCollector registers the game metrics with reg.
func NewGameCollector(reg prometheus.Registerer) *GameCollector {
	factory := promauto.With(reg)
	return &GameCollector{
		gamesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "created_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of games opened",
		}),
		gamesJoined: factory.NewCounter(prometheus.CounterOpts{
			Name:      "joined_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of games joined by a second player",
		}),
		joinsDenied: factory.NewCounter(prometheus.CounterOpts{
			Name:      "joins_denied_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of join attempts rejected by commitment checks",
		}),
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "moves_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of moves committed, by color",
		}, []string{LabelColor}),
		callsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "calls_rejected_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of reverted contract calls, by operation and error code",
		}, []string{LabelOperation, LabelCode}),
		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "finished_total",
			Namespace: namespaceFogChess,
			Subsystem: subsystemGames,
			Help:      "number of finished games, by outcome",
		}, []string{LabelOutcome}),
	}
}

func (gc *GameCollector) GameCreated() {
	gc.gamesCreated.Inc()
}

func (gc *GameCollector) GameJoined() {
	gc.gamesJoined.Inc()
}

func (gc *GameCollector) JoinDenied() {
	gc.joinsDenied.Inc()
}

func (gc *GameCollector) MoveCommitted(color string) {
	gc.moves.WithLabelValues(color).Inc()
}

func (gc *GameCollector) CallRejected(op string, code string) {
	gc.callsRejected.WithLabelValues(op, code).Inc()
}

func (gc *GameCollector) GameFinished(outcome string) {
	gc.gamesFinished.WithLabelValues(outcome).Inc()
}
