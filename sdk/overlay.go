package sdk

// overlay buffers the writes and events of one call on top of the
// committed ledger state.
type overlay struct {
	ledger *ledger
	env    Env
	writes map[string]string
	events []Event
	err    error
}

var _ Tx = (*overlay)(nil)

func newOverlay(l *ledger, env Env) *overlay {
	return &overlay{
		ledger: l,
		env:    env,
		writes: make(map[string]string),
	}
}

func (o *overlay) StateGetObject(key string) *string {
	if val, ok := o.writes[key]; ok {
		return &val
	}
	val, err := o.ledger.get(key)
	if err != nil {
		// the call cannot observe storage failures; it is failed on return
		if o.err == nil {
			o.err = err
		}
		return nil
	}
	return val
}

func (o *overlay) StateSetObject(key, value string) {
	o.writes[key] = value
}

func (o *overlay) EmitEvent(eventType string, payload []byte) {
	o.events = append(o.events, Event{
		Type:        eventType,
		BlockHeight: o.env.BlockHeight,
		TxID:        o.env.TxID,
		Index:       uint32(len(o.events)),
		Payload:     append([]byte(nil), payload...),
	})
}

func (o *overlay) GetEnv() Env { return o.env }
