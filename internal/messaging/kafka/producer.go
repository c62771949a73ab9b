package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Верхняя граница ожидания подтверждения от брокера.
const publishTimeout = 2 * time.Second

// Producer публикует события завершения операций витрины. Поток событий
// best-effort: потерянное событие дешевле операции, застрявшей в ожидании
// брокера, поэтому настройки смещены в сторону скорости, а не гарантий доставки.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// producerConfig собирает настройки под поток событий витрины: подтверждение
// только лидером партиции, один повтор и жёсткий таймаут публикации.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 1
	config.Producer.Timeout = publishTimeout
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true // требование SyncProducer
	return config
}

// NewProducer подключается к брокерам и возвращает producer событий.
func NewProducer(brokers []string) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create event producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "event-producer"),
	}, nil
}

// PublishEvent сериализует событие и отправляет его в указанный topic.
// Ключ определяет партицию: события одного заказа приходят по порядку.
func (p *Producer) PublishEvent(topic, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal settlement event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish settlement event: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("settlement event published")

	return nil
}

// Close освобождает соединения с брокерами.
func (p *Producer) Close() error {
	return p.producer.Close()
}
