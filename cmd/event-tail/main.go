// Утилита для отладки потока событий витрины: подключается к Kafka и
// печатает события завершения операций по мере их поступления.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/messaging/kafka"
)

type config struct {
	brokers    []string
	topic      string
	fromOldest bool
}

func readConfig() (config, error) {
	var (
		brokersRaw string
		cfg        config
	)

	flag.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: BUYZZIE_KAFKA_BROKERS)")
	flag.StringVar(&cfg.topic, "topic", kafka.TopicOrderEvents, "topic to tail")
	flag.BoolVar(&cfg.fromOldest, "from-oldest", false, "start from the oldest retained messages")
	flag.Parse()

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = os.Getenv("BUYZZIE_KAFKA_BROKERS")
	}

	cfg.brokers = parseBrokers(brokersRaw)
	if len(cfg.brokers) == 0 {
		return config{}, fmt.Errorf("kafka brokers are required (-brokers or BUYZZIE_KAFKA_BROKERS)")
	}
	if strings.TrimSpace(cfg.topic) == "" {
		return config{}, fmt.Errorf("topic is required")
	}

	return cfg, nil
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		broker := strings.TrimSpace(chunk)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	return brokers
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg, err := readConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("event tail failed")
	}
}

func run(ctx context.Context, cfg config) error {
	consumerConfig := sarama.NewConfig()
	consumerConfig.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer(cfg.brokers, consumerConfig)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }()

	partitions, err := consumer.Partitions(cfg.topic)
	if err != nil {
		return fmt.Errorf("list partitions for %s: %w", cfg.topic, err)
	}

	offset := sarama.OffsetNewest
	if cfg.fromOldest {
		offset = sarama.OffsetOldest
	}

	log.WithFields(log.Fields{
		"topic":      cfg.topic,
		"partitions": len(partitions),
	}).Info("tailing settlement events")

	var wg sync.WaitGroup
	for _, partition := range partitions {
		pc, err := consumer.ConsumePartition(cfg.topic, partition, offset)
		if err != nil {
			return fmt.Errorf("consume partition %d: %w", partition, err)
		}

		wg.Add(1)
		go func(pc sarama.PartitionConsumer, partition int32) {
			defer wg.Done()
			defer func() { _ = pc.Close() }()
			tailPartition(ctx, pc, partition)
		}(pc, partition)
	}

	wg.Wait()
	return nil
}

func tailPartition(ctx context.Context, pc sarama.PartitionConsumer, partition int32) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-pc.Errors():
			if err != nil {
				log.WithError(err).WithField("partition", partition).Warn("consumer error")
			}
		case msg := <-pc.Messages():
			if msg == nil {
				return
			}
			printEvent(msg)
		}
	}
}

func printEvent(msg *sarama.ConsumerMessage) {
	var event kafka.SettlementEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Warn("skipping non-settlement message")
		return
	}

	log.WithFields(log.Fields{
		"event_type": event.EventType,
		"operation":  event.Operation,
		"order_id":   event.OrderID,
		"partition":  msg.Partition,
		"offset":     msg.Offset,
	}).Info("settlement event")
}
