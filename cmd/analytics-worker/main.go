package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/shelfswap/shelfswap/internal/clickhouse"
	"github.com/shelfswap/shelfswap/internal/config"
	"github.com/shelfswap/shelfswap/internal/database"
	"github.com/shelfswap/shelfswap/internal/enrichment"
	"github.com/shelfswap/shelfswap/internal/logger"
	"github.com/shelfswap/shelfswap/internal/redis"
)

var (
	log           *logger.Logger
	streamName    string
	consumerGroup string
	consumerName  string
	batchSize     int
	pollInterval  time.Duration
	blockTime     time.Duration
)

func main() {
	log = logger.New("analytics-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	streamName = cfg.Redis.StreamName
	consumerGroup = cfg.Analytics.ConsumerGroup
	consumerName = cfg.Analytics.ConsumerName
	batchSize = cfg.Analytics.BatchSize
	pollInterval = cfg.Analytics.PollInterval
	blockTime = cfg.Analytics.BlockTime

	ctx := context.Background()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	dbManager, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:      cfg.Database.PrimaryDSN,
		ReplicaDSNs:     cfg.Database.ReplicaDSNs,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()

	err = redisClient.GetClient().XGroupCreateMkStream(ctx, streamName, consumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		log.Fatal("Failed to create consumer group: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info("Processing book view events")
	go processEvents(ctx, redisClient.GetClient(), dbManager, chClient)

	<-sigChan
	log.Info("Shutting down")
}

func processEvents(ctx context.Context, client *redislib.Client, dbManager *database.DBManager, chClient *clickhouse.Client) {
	for {
		messages, err := client.XReadGroup(ctx, &redislib.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{streamName, ">"},
			Count:    int64(batchSize),
			Block:    blockTime,
		}).Result()

		if err != nil {
			if err == redislib.Nil {
				continue
			}
			log.Error("Failed to read from stream: %v", err)
			time.Sleep(pollInterval)
			continue
		}

		for _, stream := range messages {
			if len(stream.Messages) == 0 {
				continue
			}

			viewCounts := make(map[string]int)
			chEvents := make([]clickhouse.ViewEvent, 0, len(stream.Messages))
			messageIDs := make([]string, 0, len(stream.Messages))

			for _, msg := range stream.Messages {
				bookID, ok := msg.Values["book_id"].(string)
				if !ok {
					log.Warn("Invalid message format: %v", msg.ID)
					continue
				}

				viewCounts[bookID]++
				chEvents = append(chEvents, buildEvent(bookID, msg.Values))
				messageIDs = append(messageIDs, msg.ID)
			}

			if len(chEvents) > 0 {
				if err := chClient.InsertViewEvents(ctx, chEvents); err != nil {
					log.Error("Failed to insert into ClickHouse: %v", err)
					continue
				}
			}

			if len(viewCounts) > 0 {
				if err := updateViewCounts(ctx, dbManager, viewCounts); err != nil {
					log.Error("Failed to update database: %v", err)
					continue
				}
				log.Debug("Processed %d events for %d books", len(messageIDs), len(viewCounts))
			}

			if len(messageIDs) > 0 {
				if err := client.XAck(ctx, streamName, consumerGroup, messageIDs...).Err(); err != nil {
					log.Error("Failed to acknowledge messages: %v", err)
				}
			}
		}
	}
}

func buildEvent(bookID string, values map[string]interface{}) clickhouse.ViewEvent {
	event := clickhouse.ViewEvent{
		EventID:  uuid.New().String(),
		BookID:   bookID,
		ViewedAt: time.Now(),
	}

	if ts, ok := values["timestamp"].(string); ok {
		if unix, err := strconv.ParseInt(ts, 10, 64); err == nil {
			event.ViewedAt = time.Unix(unix, 0)
		}
	}

	if ip, ok := values["ip"].(string); ok {
		event.IPAddress = ip
		geo := enrichment.LookupGeo(ip)
		event.Country = geo.Country
		event.Region = geo.Region
	}

	if ua, ok := values["user_agent"].(string); ok {
		event.UserAgent = ua
		info := enrichment.ParseUserAgent(ua)
		event.Browser = info.Browser
		event.BrowserVersion = info.BrowserVersion
		event.OS = info.OS
		event.DeviceType = info.DeviceType
	}

	if referer, ok := values["referer"].(string); ok {
		event.Referer = referer
	}

	return event
}

func updateViewCounts(ctx context.Context, dbManager *database.DBManager, viewCounts map[string]int) error {
	tx, err := dbManager.Write().Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for bookID, count := range viewCounts {
		query := `
			UPDATE books
			SET views = views + $1,
			    updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.Exec(ctx, query, count, bookID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
