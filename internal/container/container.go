package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/config"
	"github.com/campushq/platform/internal/event"
	"github.com/campushq/platform/internal/realtime"
	"github.com/campushq/platform/pkg/helpers"
	"github.com/campushq/platform/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router modules auto-wire themselves from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	broker        *helpers.RabbitBroker
	publisher     event.Publisher
	esClient      *elasticsearch.Client
	hub           *realtime.Hub
)

func SetConfig(c *config.Config)           { cfg = c }
func GetConfig() *config.Config            { return cfg }
func SetLogger(l *logrus.Logger)           { logger = l }
func GetLogger() *logrus.Logger            { return logger }
func SetPGPool(p *pgxpool.Pool)            { pgPool = p }
func GetPGPool() *pgxpool.Pool             { return pgPool }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetJWT(m *helpers.JWTManager)         { jwtManager = m }
func GetJWT() *helpers.JWTManager          { return jwtManager }
func SetMailgun(m *mailer.Mailgun)         { mailgunClient = m }
func GetMailgun() *mailer.Mailgun          { return mailgunClient }
func SetBroker(b *helpers.RabbitBroker)    { broker = b }
func GetBroker() *helpers.RabbitBroker     { return broker }
func SetPublisher(p event.Publisher)       { publisher = p }
func GetPublisher() event.Publisher        { return publisher }
func SetES(c *elasticsearch.Client)        { esClient = c }
func GetES() *elasticsearch.Client         { return esClient }
func SetHub(h *realtime.Hub)               { hub = h }
func GetHub() *realtime.Hub                { return hub }
