package messagepush

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/IBM/sarama"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/vault"
	"github.com/pkg/errors"
)

type produceOptions struct {
	topic   string
	pushKey string
	headers []sarama.RecordHeader
}

type produceOptFunc func(opts *produceOptions)

func newProduceOptions(topic, pushKey string, optFns []produceOptFunc) *produceOptions {
	opts := &produceOptions{topic: topic, pushKey: pushKey}
	for _, f := range optFns {
		f(opts)
	}
	return opts
}

func WithTopic(topic string) produceOptFunc {
	return func(opts *produceOptions) {
		opts.topic = topic
	}
}

func WithPushKey(key string) produceOptFunc {
	return func(opts *produceOptions) {
		opts.pushKey = key
	}
}

// WithHeader adds a record header. The fake producer ignores headers.
func WithHeader(key, value string) produceOptFunc {
	return func(opts *produceOptions) {
		opts.headers = append(opts.headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
}

// eventOptions tags an event message with its name and operation.
func eventOptions(ev *ledger.EventRecord, optFns []produceOptFunc) []produceOptFunc {
	return append([]produceOptFunc{
		WithHeader(headerEventName, ev.Name),
		WithHeader(headerOperationID, ev.OperationID.String()),
	}, optFns...)
}

type KafkaProducer interface {
	Produce(msg interface{}, optFns ...produceOptFunc) error
	PushEvent(ev *ledger.EventRecord, optFns ...produceOptFunc) error
	Close() error

	// GetFakeMessages returns the messages from the fake producer
	// Not available for real kafka producer
	GetFakeMessages(topic string) []string
}

type kafkaProducerImpl struct {
	producer       sarama.SyncProducer
	defaultTopic   string
	defaultPushKey string
}

func NewKafkaProducer(cfg Config) (KafkaProducer, error) {
	if cfg.UseFakeProducer {
		log.Infof("start to init fake kafka producer!")
		return newFakeProducer(cfg), nil
	}
	log.Infof("start to init real kafka producer!")
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	// Enable SASL authentication
	if cfg.Username != "" && cfg.Password != "" && cfg.RootCAPath != "" {
		config.Net.SASL.Enable = true
		config.Net.SASL.User = cfg.Username
		config.Net.SASL.Password = cfg.Password

		// Read the CA cert from file
		rootCA, err := os.ReadFile(cfg.RootCAPath)
		if err != nil {
			return nil, errors.Wrap(err, "NewKafkaProducer read root CA cert fail")
		}

		caCertPool := x509.NewCertPool()
		if ok := caCertPool.AppendCertsFromPEM(rootCA); !ok {
			return nil, errors.New("NewKafkaProducer caCertPool.AppendCertsFromPEM")
		}

		config.Net.TLS.Enable = true
		config.Net.TLS.Config = &tls.Config{RootCAs: caCertPool, MinVersion: tls.VersionTLS12}
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, errors.Wrap(err, "NewKafkaProducer: NewSyncProducer error")
	}
	return newKafkaProducer(producer, cfg), nil
}

func newKafkaProducer(producer sarama.SyncProducer, cfg Config) *kafkaProducerImpl {
	return &kafkaProducerImpl{
		producer:       producer,
		defaultTopic:   cfg.Topic,
		defaultPushKey: cfg.PushKey,
	}
}

// Produce send a message to the Kafka topic
// msg should be either a string or an object
// If msg is an object, it will be encoded to JSON before being sent
func (p *kafkaProducerImpl) Produce(msg interface{}, optFns ...produceOptFunc) error {
	if p == nil || p.producer == nil {
		log.Debugf("Kafka producer is nil")
		return nil
	}
	opts := newProduceOptions(p.defaultTopic, p.defaultPushKey, optFns)
	msgString, err := convertMsgToString(msg)
	if err != nil {
		return err
	}

	produceMsg := &sarama.ProducerMessage{
		Topic:   opts.topic,
		Value:   sarama.StringEncoder(msgString),
		Headers: opts.headers,
	}
	if opts.pushKey != "" {
		produceMsg.Key = sarama.StringEncoder(opts.pushKey)
	}

	partition, offset, err := p.producer.SendMessage(produceMsg)
	if err != nil {
		return errors.Wrap(err, "kafka SendMessage error")
	}

	log.Debugf("Produced to Kafka: topic[%v] msg[%v] partition[%v] offset[%v]", opts.topic, msgString, partition, offset)
	return nil
}

func (p *kafkaProducerImpl) PushEvent(ev *ledger.EventRecord, optFns ...produceOptFunc) error {
	msg, err := newEventMessage(ev)
	if err != nil || msg == nil {
		return err
	}
	return p.Produce(msg, eventOptions(ev, optFns)...)
}

func (p *kafkaProducerImpl) Close() error {
	return p.producer.Close()
}

func (p *kafkaProducerImpl) GetFakeMessages(string) []string {
	log.Warnf("GetFakeMessages should only be called from fakeProducer")
	return nil
}

// EventSink pushes every event of a committed operation, keyed by the vault address
// so events of one vault stay ordered on a single partition.
type EventSink struct {
	producer KafkaProducer
}

// NewEventSink creates an EventSink over producer.
func NewEventSink(producer KafkaProducer) *EventSink {
	return &EventSink{producer: producer}
}

// OnCommit implements ledger.Sink.
func (s *EventSink) OnCommit(_ context.Context, op *ledger.Operation, summary *vault.Summary) {
	key := summary.Address.Hex()
	for _, ev := range op.Events {
		if err := s.producer.PushEvent(ev, WithPushKey(key)); err != nil {
			log.Errorf("error pushing event[%v] of operation[%v]: %v", ev.Name, op.ID, err)
		}
	}
}
