package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/codeduel-io/codeduel/internal/app/server"
	"github.com/codeduel-io/codeduel/internal/questions"
	"github.com/codeduel-io/codeduel/internal/storage"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	defer logging.Sync()

	cfg := server.NewConfig()

	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AwsRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AwsRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		logging.Fatal("failed to load aws config", zap.Error(err))
	}
	publisher := storage.NewClient(
		dynamodb.NewFromConfig(awsCfg),
		storage.Config{
			MatchResultsTableName: aws.String(cfg.MatchResultsTableName),
			PlayerStatsTableName:  aws.String(cfg.PlayerStatsTableName),
			WinRatingDelta:        cfg.WinRatingDelta,
			LossRatingDelta:       cfg.LossRatingDelta,
		},
	)
	bank := questions.NewDefaultBank(rand.NewSource(time.Now().UnixNano()))

	srv := server.NewServer(cfg, bank, nil, publisher)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		srv.Shutdown()
		logging.Sync()
		os.Exit(0)
	}()

	logging.Fatal("duel server exited", zap.Error(srv.Start()))
}
