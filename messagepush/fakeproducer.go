package messagepush

import (
	"sync"

	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
)

const (
	fakeMessageLimit = 100
)

type fakeProducer struct {
	mu             sync.Mutex
	defaultTopic   string
	defaultPushKey string
	messages       map[string][]string // Map from topic name to list of messages
}

func newFakeProducer(cfg Config) KafkaProducer {
	return &fakeProducer{
		defaultTopic:   cfg.Topic,
		defaultPushKey: cfg.PushKey,
		messages:       make(map[string][]string),
	}
}

func (p *fakeProducer) Produce(msg interface{}, optFns ...produceOptFunc) error {
	opts := newProduceOptions(p.defaultTopic, p.defaultPushKey, optFns)
	msgString, err := convertMsgToString(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := append(p.messages[opts.topic], msgString)
	if n := len(msgs) - fakeMessageLimit; n > 0 {
		msgs = msgs[n:]
	}
	p.messages[opts.topic] = msgs
	log.Debugf("Produced to fake producer: topic[%v] msg[%v]", opts.topic, msgString)
	return nil
}

func (p *fakeProducer) PushEvent(ev *ledger.EventRecord, optFns ...produceOptFunc) error {
	msg, err := newEventMessage(ev)
	if err != nil || msg == nil {
		return err
	}
	return p.Produce(msg, eventOptions(ev, optFns)...)
}

func (p *fakeProducer) Close() error {
	return nil
}

// GetFakeMessages returns and clears the latest 100 messages of the topic
func (p *fakeProducer) GetFakeMessages(topic string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	allMsg := p.messages[topic]
	p.messages[topic] = []string{}
	return allMsg
}
