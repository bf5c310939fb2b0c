package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/farmstand/marketplace/config"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/session"
	"github.com/farmstand/marketplace/pkg/upload"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client

	sessionStore session.Store
	tokens       *helpers.TokenManager
	cookies      *helpers.Manager
	uploads      *upload.Saver

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)        { cfg = c }
func GetConfig() *config.Config         { return cfg }
func SetLogger(l *logrus.Logger)        { logger = l }
func GetLogger() *logrus.Logger         { return logger }
func SetMongo(db *mongo.Database)       { mongoDB = db }
func GetMongo() *mongo.Database         { return mongoDB }
func SetRedis(r *redis.Client)          { redisClient = r }
func GetRedis() *redis.Client           { return redisClient }
func SetSessions(s session.Store)       { sessionStore = s }
func GetSessions() session.Store        { return sessionStore }
func SetTokens(t *helpers.TokenManager) { tokens = t }
func GetTokens() *helpers.TokenManager  { return tokens }
func SetCookies(m *helpers.Manager)     { cookies = m }
func GetCookies() *helpers.Manager      { return cookies }
func SetUploads(s *upload.Saver)        { uploads = s }
func GetUploads() *upload.Saver         { return uploads }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
