package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/patagonfinance/vault-service/config"
	"github.com/patagonfinance/vault-service/db"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/messagepush"
	"github.com/patagonfinance/vault-service/metrics"
	"github.com/patagonfinance/vault-service/redisstorage"
	"github.com/patagonfinance/vault-service/server"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func start(cliCtx *cli.Context) error {
	c, err := initCommon(cliCtx)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Database.RunMigrations {
		err = db.RunMigrations(c.Database)
		if err != nil {
			log.Error(err)
			return err
		}
	}
	storage, err := db.NewStorage(c.Database)
	if err != nil {
		log.Error(err)
		return err
	}
	defer storage.Close()

	if c.Metrics.Enabled {
		metrics.Init(c.Metrics)
	}
	sinks := []ledger.Sink{metrics.Sink{}}

	var redisStorage redisstorage.RedisStorage
	if c.Redis.Enabled {
		redisStorage, err = redisstorage.NewRedisStorage(c.Redis)
		if err != nil {
			log.Error(err)
			return err
		}
		sinks = append(sinks, redisstorage.NewSummarySink(redisStorage))
	}

	if c.MessagePushProducer.Enabled {
		producer, err := messagepush.NewKafkaProducer(c.MessagePushProducer)
		if err != nil {
			log.Error(err)
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Errorf("close kafka producer error: %v", err)
			}
		}()
		sinks = append(sinks, messagepush.NewEventSink(producer))
	}

	host, err := ledger.Open(ctx, c.NetworkConfig.Genesis, ledger.WithStorage(storage), ledger.WithSinks(sinks...))
	if err != nil {
		log.Error(err)
		return err
	}

	service, err := server.NewVaultService(c.Server, host, c.NetworkConfig.Genesis.Operator)
	if err != nil {
		log.Error(err)
		return err
	}
	service.WithEventStorage(storage)
	if redisStorage != nil {
		service.WithSummaryCache(redisStorage)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return metrics.StartMetricsHttpServer(gctx, c.Metrics)
	})
	g.Go(func() error {
		return server.RunServer(gctx, c.Server, server.NewRouter(c.Server, service))
	})
	err = g.Wait()
	log.Info("vault service stopped")
	return err
}

func migrate(cliCtx *cli.Context) error {
	c, err := initCommon(cliCtx)
	if err != nil {
		return err
	}
	if n := cliCtx.Int(flagDown); n > 0 {
		return db.RollbackMigrations(c.Database, n)
	}
	return db.RunMigrations(c.Database)
}

func initCommon(cliCtx *cli.Context) (*config.Config, error) {
	configFilePath := cliCtx.String(flagCfg)
	network := cliCtx.String(flagNetwork)

	c, err := config.Load(configFilePath, network)
	if err != nil {
		return nil, err
	}
	log.Init(c.Log)
	return c, nil
}
