// Command checkpointindexer wires a demonstration provider, cache, the
// balance/object-change engines and the ordered publisher into a runnable
// process. It is a thin shim: the business logic lives entirely in
// synnergy-network/core/checkpoint.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"synnergy-network/core/checkpoint"
	"synnergy-network/pkg/config"
)

var log = logrus.WithField("component", "cmd.checkpointindexer")

func main() {
	_ = godotenv.Load(".env")
	viper.AutomaticEnv()

	root := &cobra.Command{
		Use:   "checkpointindexer",
		Short: "run the checkpoint delta indexer demonstration pipeline",
		RunE:  runServe,
	}
	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(os.Getenv("INDEXER_ENV"))
	if err != nil {
		log.Warnf("config load failed, using defaults: %v", err)
		cfg = &config.Config{}
	}
	if cfg.Indexer.MailboxCapacity == 0 {
		cfg.Indexer.MailboxCapacity = 64
	}
	if cfg.Indexer.CacheRingSize == 0 {
		cfg.Indexer.CacheRingSize = 32
	}
	if cfg.Indexer.WSBindAddr == "" {
		cfg.Indexer.WSBindAddr = ":8090"
	}
	if cfg.Indexer.NotificationTopicPrefix == "" {
		cfg.Indexer.NotificationTopicPrefix = "checkpoint-indexer"
	}
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host, err := libp2p.New()
	if err != nil {
		return err
	}
	defer host.Close()
	ps, err := pubsub.NewGossipSub(ctx, host)
	if err != nil {
		return err
	}

	wsBus := checkpoint.NewWSBus(nil)
	notifBus := checkpoint.NewNotificationBus(ctx, ps)
	bus := combinedBus{ws: wsBus, notifications: notifBus}

	publisher := checkpoint.NewOrderedPublisher(bus, cfg.Indexer.MailboxCapacity, cfg.Indexer.PreserveIntraCheckpointOrder)
	publisher.Start(ctx)
	defer publisher.Close()

	provider := newFixtureProvider()
	ring, err := checkpoint.NewCacheRing(provider, cfg.Indexer.CacheRingSize)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", wsBus)
	srv := &http.Server{Addr: cfg.Indexer.WSBindAddr, Handler: mux}
	go func() {
		log.Infof("ws bus listening on %s", cfg.Indexer.WSBindAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("ws server: %v", err)
		}
	}()

	seq, effects := demoCheckpoint(provider)
	cache := ring.ForCheckpoint(seq)

	changes, err := checkpoint.ComputeObjectChanges(ctx, cache, checkpoint.Address{}, effects)
	if err != nil {
		return err
	}
	log.Infof("checkpoint %d produced %d object changes", seq, len(changes))

	balances, err := checkpoint.BalanceChangesFromEffects(ctx, cache, effects, nil, nil)
	if err != nil {
		return err
	}
	log.Infof("checkpoint %d produced %d balance changes", seq, len(balances))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// combinedBus adapts the two reference Bus implementations into the single
// Bus interface the publisher expects.
type combinedBus struct {
	ws            *checkpoint.WSBus
	notifications *checkpoint.NotificationBus
}

func (b combinedBus) PublishUpdate(ctx context.Context, msg checkpoint.RoutedObjectChangeUpdate) {
	b.ws.PublishUpdate(ctx, msg)
}

func (b combinedBus) PublishNotifications(ctx context.Context, batch []checkpoint.Notification) {
	b.notifications.PublishNotifications(ctx, batch)
}
