package main

import (
	"context"
	"toonstalkapi/internal/sweep"
	"toonstalkapi/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Runs every 30 minutes: first settle lapsed heartbeats into offline
// records, then walk the collection for ghosts and stale anonymous
// accounts.
func main() {

	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	mongoServerAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(config.ENV.MONGO_URI).SetServerAPIOptions(mongoServerAPI)
	mongoCli, err := mongo.Connect(mongoOpts)
	if err != nil {
		panic(err)
	}
	defer mongoCli.Disconnect(ctx)
	mongoDB := mongoCli.Database(config.MONGO_DB)

	redisCli := redis.NewClient(&redis.Options{
		Addr:     config.ENV.REDIS_ADDR,
		Username: config.ENV.REDIS_USERNAME,
		Password: config.ENV.REDIS_PASSWORD,
		DB:       0,
	})

	reaped, err := sweep.ReapDisconnected(ctx, logger, mongoDB, redisCli)
	if err != nil {
		logger.Error("disconnect reap failed", zap.Error(err))
	}

	counters, err := sweep.Run(ctx, logger, mongoDB, redisCli)
	if err != nil {
		logger.Fatal("cleanup sweep failed", zap.Error(err))
	}

	logger.Info("cleanup sweep complete",
		zap.Int("reaped", reaped),
		zap.Int("ghostsRemoved", counters.GhostsRemoved),
		zap.Int("staleRemoved", counters.StaleRemoved),
		zap.Int("skipped", counters.Skipped),
		zap.Int("errors", len(counters.Errors)),
	)

}
