package deps

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
	"userkit/internal/config"
	dl "userkit/internal/core/domain/logging"
	drl "userkit/internal/core/domain/ratelimiter"
	dreferer "userkit/internal/core/domain/referer"
	"userkit/internal/core/domain/user"
	dbuser "userkit/internal/db/user"
	"userkit/internal/implementations/email"
	"userkit/internal/implementations/logging"
	passwordhasher "userkit/internal/implementations/password_hasher"
	ratelimiter "userkit/internal/implementations/rate_limiter"
	refererstore "userkit/internal/implementations/referer_store"
	secretgenerator "userkit/internal/implementations/secret_generator"
	"userkit/internal/implementations/session"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UserRepository    user.UserRepository
	SessionRepository user.SessionRepository

	RateLimiter drl.RateLimiter

	PasswordHasher        user.PasswordHasher
	ResetSecretGenerator  user.ResetSecretGenerator
	SessionTokenGenerator user.SessionTokenGenerator
	ResetLinkSender       user.ResetLinkSender

	RefererStore dreferer.Store
	RefererGuard *dreferer.Guard

	// Absolute URLs of the password flow entry points, derived from the
	// public base URL. The referer guard refuses to redirect back to them.
	ChangePasswordURL       string
	RequestPasswordResetURL string
	PasswordResetBaseURL    url.URL
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.SessionRepository = dbuser.NewPgxSessionRepository(deps.DB)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.ResetSecretGenerator = secretgenerator.NewCryptoRandom()
	deps.SessionTokenGenerator = session.NewUUID()

	publicBaseURL := deps.Config.PublicBaseURL
	deps.ChangePasswordURL = publicBaseURL.JoinPath("password", "change").String()
	deps.RequestPasswordResetURL = publicBaseURL.JoinPath("password", "request").String()
	deps.PasswordResetBaseURL = *publicBaseURL.JoinPath("password", "reset")

	deps.ResetLinkSender = email.NewResetLinkSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailSenderName,
		deps.Config.AwsEmailPasswordResetTemplate,
		deps.PasswordResetBaseURL,
	)

	deps.RefererStore = refererstore.NewRedis(deps.Redis, deps.Config.RefererTTL)
	deps.RefererGuard = dreferer.NewGuard(deps.RefererStore, []string{
		deps.ChangePasswordURL,
		deps.RequestPasswordResetURL,
		deps.PasswordResetBaseURL.String(),
	})

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != nil {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn.String(),
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
