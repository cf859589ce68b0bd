package bridge

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"mqtt2ola/internal/clientmqtt"
	"mqtt2ola/internal/logger"
	"mqtt2ola/pkg/ola"
)

// Bridge applies DMX updates received over MQTT to an OLA server.
type Bridge struct {
	logger      logger.Logger
	dmx         DMXClient
	pub         Publisher
	conf        Conf
	state       *State
	ctx         context.Context
	dmxDataCh   <-chan clientmqtt.DataCh
	wg          sync.WaitGroup

	// Universes waiting to be sent. A universe queued again before the sender
	// picks it up is sent once, with its latest state.
	pendingMu   sync.Mutex
	pending     map[uint16]struct{}
	sendTrigger chan struct{}
}

// NewBridge конструктор.
func NewBridge(log logger.Logger, dmx DMXClient, pub Publisher, conf Conf) *Bridge {
	if conf.BufferLength < 1 {
		conf.BufferLength = ola.DefaultBufferLength
	}
	return &Bridge{
		logger:      log,
		dmx:         dmx,
		pub:         pub,
		conf:        conf,
		state:       NewState(conf.BufferLength),
		pending:     map[uint16]struct{}{},
		sendTrigger: make(chan struct{}, 1),
	}
}

// Start the Bridge. The loops run until ctx is done.
func (b *Bridge) Start(ctx context.Context, dmxDataCh <-chan clientmqtt.DataCh) {
	b.ctx = ctx
	b.dmxDataCh = dmxDataCh

	b.wg.Add(2)
	go b.sendBackground()
	go b.dataProcessing()

	if b.conf.StatusInterval > 0 && b.pub != nil {
		b.wg.Add(1)
		go b.statusBackground()
	}
}

// Stop waits for the loops to exit. Cancel the context passed to Start first.
func (b *Bridge) Stop() {
	b.wg.Wait()
}

func (b *Bridge) SetDMXChannelValue(value ChannelValue) {
	if !b.state.SetChannel(value.Universe, value.Channel, value.Value) {
		b.logger.With(logger.Fields{"module": "bridge", "universe": value.Universe}).
			Warnf("channel %d is outside the %d channel universe, value dropped", value.Channel, b.conf.BufferLength)
		return
	}
	b.triggerSend(value.Universe)
}

func (b *Bridge) SetDMXChannelValues(values []ChannelValue) {
	for _, v := range b.state.SetChannelValues(values) {
		b.logger.With(logger.Fields{"module": "bridge", "universe": v.Universe}).
			Warnf("channel %d is outside the %d channel universe, value dropped", v.Channel, b.conf.BufferLength)
	}

	touched := map[uint16]struct{}{}
	for _, v := range values {
		if _, ok := touched[v.Universe]; ok {
			continue
		}
		touched[v.Universe] = struct{}{}
		b.triggerSend(v.Universe)
	}
}

// SetDMXUniverse replaces every channel of a universe.
func (b *Bridge) SetDMXUniverse(universe uint16, frame []byte) {
	b.state.SetUniverse(universe, frame)
	b.triggerSend(universe)
}

// triggerSend never blocks, so a slow OLA server does not stall the MQTT
// message handler.
func (b *Bridge) triggerSend(universe uint16) {
	b.logger.With(logger.Fields{"module": "bridge"}).Debugf("DMX. Queue universe %d", universe)

	b.pendingMu.Lock()
	b.pending[universe] = struct{}{}
	b.pendingMu.Unlock()

	select {
	case b.sendTrigger <- struct{}{}:
	default:
	}
}

// takePending returns the queued universes in ascending order and clears the queue.
func (b *Bridge) takePending() []uint16 {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	out := make([]uint16, 0, len(b.pending))
	for u := range b.pending {
		out = append(out, u)
	}
	b.pending = map[uint16]struct{}{}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Bridge) sendBackground() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-b.sendTrigger:
			for _, u := range b.takePending() {
				if b.ctx.Err() != nil {
					return
				}
				b.send(u)
			}
		}
	}
}

// send pushes a snapshot of the universe, never the state slice itself.
func (b *Bridge) send(u uint16) {
	dmx := b.state.Get(u)
	b.logger.With(logger.Fields{"module": "bridge"}).Debugf("DMX. Send universe %d to OLA", u)
	if err := b.dmx.SetDMX(b.ctx, strconv.FormatUint(uint64(u), 10), dmx); err != nil {
		b.logger.With(logger.Fields{"module": "bridge", "universe": u}).Errorf("failed to send DMX: %v", err)
	}
}

func (b *Bridge) dataProcessing() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case d, ok := <-b.dmxDataCh:
			if !ok {
				return
			}
			b.apply(d)
		}
	}
}

func (b *Bridge) apply(d clientmqtt.DataCh) {
	b.logger.With(logger.Fields{"module": "bridge"}).Debugf("DMX. Data from MQTT for universe %d", d.Universe)
	if d.Absolute {
		b.SetDMXUniverse(d.Universe, d.Frame)
		return
	}
	if len(d.Commands) == 0 {
		return
	}
	values := make([]ChannelValue, len(d.Commands))
	for i, c := range d.Commands {
		values[i] = ChannelValue{Universe: d.Universe, Channel: c.Channel, Value: c.Value}
	}
	b.SetDMXChannelValues(values)
}

func (b *Bridge) statusBackground() {
	defer b.wg.Done()
	t := time.NewTicker(b.conf.StatusInterval)
	defer t.Stop()

	b.publishStatus()
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-t.C:
			b.publishStatus()
		}
	}
}

// publishStatus reads the server status and universe list from OLA and
// publishes them as retained documents.
func (b *Bridge) publishStatus() {
	log := b.logger.With(logger.Fields{"module": "bridge"})

	stats, err := b.dmx.GetServerStats(b.ctx)
	if err != nil {
		log.Errorf("failed to read server stats: %v", err)
	} else {
		b.publishJSON(b.conf.TopicPrefix+"/status/server", stats)
	}

	list, err := b.dmx.UniversesPluginList(b.ctx)
	if err != nil {
		log.Errorf("failed to read universe list: %v", err)
		return
	}
	b.publishJSON(b.conf.TopicPrefix+"/status/universes", list)
	log.Debugf("Currently %d universes and %d plugins are registered, bridge drives universes %v",
		len(list.Universes), len(list.Plugins), b.state.Universes())
}

func (b *Bridge) publishJSON(topic string, v interface{}) {
	log := b.logger.With(logger.Fields{"module": "bridge", "topic": topic})
	msg, err := json.Marshal(v)
	if err != nil {
		log.Errorf("status marshal: %v", err)
		return
	}
	if err := b.pub.Publish(topic, true, msg); err != nil {
		log.Errorf("error publish topic: %v", err)
	}
}
