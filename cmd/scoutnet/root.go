package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scoutnet/internal/roster/dumpstore"
	"scoutnet/internal/roster/events"
	"scoutnet/internal/roster/fetcher"
	"scoutnet/internal/roster/service"
	"scoutnet/internal/roster/validator"
	"scoutnet/pkg/config"
	"scoutnet/pkg/kafka"
	kafka_config "scoutnet/pkg/kafka/config"
	kafka_middleware "scoutnet/pkg/kafka/middleware"
)

const (
	storeFile  = "file"
	storeMongo = "mongo"
)

type rootOptions struct {
	restore string
	store   string
	events  bool
}

// app holds what a subcommand needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	opts     *rootOptions
	live     *fetcher.Live
	observer events.Observer
	closers  []func(context.Context) error
}

// newRootCmd builds the command tree. The caller closes the returned app
// once the command has run.
func newRootCmd() (*cobra.Command, *app) {
	opts := &rootOptions{}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:          "scoutnet",
		Short:        "Fetch member rosters and mailing lists from Scoutnet",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.restore, "restore", "", "replay payloads from the named dump instead of fetching them")
	cmd.PersistentFlags().StringVar(&opts.store, "store", storeFile, "dump store backend: file or mongo")
	cmd.PersistentFlags().BoolVar(&opts.events, "events", false, "publish retrieval events to Kafka")

	cmd.AddCommand(
		newMembersCmd(a),
		newListsCmd(a),
		newDumpCmd(a),
	)
	return cmd, a
}

func (a *app) init(ctx context.Context) error {
	if a.opts.store != storeFile && a.opts.store != storeMongo {
		return fmt.Errorf("unknown store %q, want %s or %s", a.opts.store, storeFile, storeMongo)
	}

	cfg, err := config.Load(ServiceName)
	if err != nil {
		return err
	}
	cfg.LogConfiguration()
	a.cfg = cfg
	a.live = fetcher.NewLive(cfg.Endpoint, cfg.Credentials(), cfg.HTTPTimeout)

	observers := []events.Observer{events.NewLogObserver(cfg.Log)}
	if a.opts.events {
		obs, err := a.kafkaObserver()
		if err != nil {
			return err
		}
		observers = append(observers, obs)
	}
	a.observer = events.Multi(observers...)
	return nil
}

func (a *app) kafkaObserver() (events.Observer, error) {
	kcfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	producer, err := kafka.NewProducer(kcfg, a.cfg.EventsTopic, a.cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(a.cfg.Log.Component("kafka")))
	a.closers = append(a.closers, func(context.Context) error { return producer.Close() })

	a.cfg.Log.Info("Publishing events", "topic", producer.Topic(), "brokers", kcfg.Brokers)
	return events.NewKafkaObserver(producer, a.cfg.Log), nil
}

func (a *app) close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *app) dumpStore(ctx context.Context) (dumpstore.Store, error) {
	if a.opts.store == storeFile {
		return dumpstore.NewFileStore(a.cfg.DumpDir), nil
	}
	store, err := dumpstore.ConnectMongo(ctx, a.cfg.Log, a.cfg.MongoURI, a.cfg.MongoDatabase, a.cfg.MongoConnTimeout)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// fetcher returns the live fetcher, or a replay of the --restore dump that
// falls back to the network for list payloads it did not capture.
func (a *app) fetcher(ctx context.Context) (fetcher.Fetcher, error) {
	if a.opts.restore == "" {
		return a.live, nil
	}
	store, err := a.dumpStore(ctx)
	if err != nil {
		return nil, err
	}
	d, err := store.Load(ctx, a.opts.restore)
	if err != nil {
		return nil, err
	}
	a.cfg.Log.Info("Restored dump", "name", a.opts.restore, "lists", len(d.Lists))
	return fetcher.NewReplay(d, a.live), nil
}

func (a *app) service(ctx context.Context) (service.RosterService, error) {
	f, err := a.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	v, err := validator.NewRecordValidator(a.cfg.PhoneRegion)
	if err != nil {
		return nil, err
	}
	return service.NewRosterService(f, v, a.observer), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
