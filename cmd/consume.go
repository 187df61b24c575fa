package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-group-services/api/services"
	"github.com/EO-DataHub/eodhp-group-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const receiveRetryDelay = 2 * time.Second

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer to apply membership changes from other services",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer groupDB.Close()

		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer, appCfg.Pulsar.Subscription)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		// Applied events are not re-published
		service := &services.MembershipService{Store: groupDB, Publisher: events.NopNotifier{}}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := log.With().Str("topic", appCfg.Pulsar.TopicConsumer).Logger()
		ctx = logger.WithContext(ctx)

		logger.Info().Msg("Waiting for messages...")
		for {
			msg, err := consumer.ReceiveMessage(ctx)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) {
					logger.Info().Msg("Consumer stopped")
					return
				}
				logger.Error().Err(err).Dur("retry_in", receiveRetryDelay).Msg("Error receiving message")
				if !waitForRetry(ctx, receiveRetryDelay) {
					logger.Info().Msg("Consumer stopped")
					return
				}
				continue
			}

			event, err := events.DecodeMembershipEvent(msg.Payload())
			if err != nil {
				logger.Error().Err(err).Str("message_id", msg.ID().String()).Msg("Invalid membership event")
				consumer.Nack(msg)
				continue
			}

			if err := service.ApplyEvent(ctx, event); err != nil {
				logger.Error().Err(err).Str("correlation_id", event.CorrelationID).Msg("Failed to apply membership event")
				consumer.Nack(msg)
				continue
			}

			if err := consumer.Ack(msg); err != nil {
				logger.Error().Err(err).Str("correlation_id", event.CorrelationID).Msg("Failed to ack message")
			}
			logger.Info().Str("action", event.Action).Str("user_id", event.UserID).
				Str("group_id", event.GroupID).Msg("Membership event applied")
		}
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}

// waitForRetry blocks for d and reports false if ctx ends first.
func waitForRetry(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
