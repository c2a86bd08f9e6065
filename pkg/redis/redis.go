package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ProjectPhotobooth/internal/entity"
)

// ErrSessionNotFound is returned when no session exists under the given ID,
// including sessions that expired.
var ErrSessionNotFound = errors.New("session not found")

// ISessionStore keeps the per-kiosk session payload between stage
// transitions. Sessions are JSON blobs with a TTL; nothing survives a reset.
type ISessionStore interface {
	SaveSession(ctx context.Context, session entity.Session, expiration time.Duration) error
	GetSession(ctx context.Context, id string) (entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type redisClient struct {
	client *redis.Client
}

func New() ISessionStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func sessionKey(id string) string {
	return "booth:session:" + id
}

func (r *redisClient) SaveSession(ctx context.Context, session entity.Session, expiration time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error saving session %s: %v", session.ID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetSession(ctx context.Context, id string) (entity.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Session{}, ErrSessionNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting session %s: %v", id, err))
		return entity.Session{}, err
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return entity.Session{}, err
	}
	return session, nil
}

func (r *redisClient) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.client.Del(ctx, sessionKey(id)).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting session %s: %v", id, err))
		return err
	}
	return nil
}
