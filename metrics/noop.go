package metrics

type NoopCollector struct{}

var _ GameMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) GameCreated()                        {}
func (nc *NoopCollector) GameJoined()                         {}
func (nc *NoopCollector) JoinDenied()                         {}
func (nc *NoopCollector) MoveCommitted(color string)          {}
func (nc *NoopCollector) CallRejected(op string, code string) {}
func (nc *NoopCollector) GameFinished(outcome string)         {}
