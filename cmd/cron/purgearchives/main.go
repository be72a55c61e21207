package main

import (
	"context"
	"toonstalkapi/internal/sweep"
	"toonstalkapi/pkg/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Runs daily: drops archives past their retention date along with any
// avatar objects they still own.
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

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		panic(err)
	}
	s3Cli := s3.NewFromConfig(awsCfg)

	purged, err := sweep.PurgeExpiredArchives(ctx, logger, mongoDB, s3Cli)
	if err != nil {
		logger.Fatal("archive purge failed", zap.Error(err))
	}

	logger.Info("archive purge complete", zap.Int("purged", purged))

}
