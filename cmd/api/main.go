package main

import (
	"context"
	"net/http"
	"regexp"
	"toonstalkapi/internal/api"
	"toonstalkapi/internal/api/account"
	"toonstalkapi/internal/api/admin"
	"toonstalkapi/internal/api/auth"
	"toonstalkapi/internal/api/payment"
	"toonstalkapi/internal/api/room"
	"toonstalkapi/internal/api/social"
	"toonstalkapi/internal/api/user"
	"toonstalkapi/pkg/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {

	ctx := context.Background()
	h := &api.Handler{}

	// init logger
	logger, err := zap.NewDevelopment(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	if err != nil {
		panic(err)
	}
	logger.Info("Server starting...")
	defer logger.Sync()
	h.Logger = logger

	// init validator
	h.Validate = validator.New()
	h.Validate.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		nickname := fl.Field().String()
		re := regexp.MustCompile(`^[a-zA-Z0-9._\- ]{3,32}$`)
		return re.MatchString(nickname)
	})

	h.Validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		re := regexp.MustCompile(`^[A-Za-z0-9~` + "`" + `!@#$%^&*()_\-+={[}\]|\\:;"'<,>.?/]{8,128}$`)
		return re.MatchString(password)
	})

	// init mongo
	mongoServerAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(config.ENV.MONGO_URI).SetServerAPIOptions(mongoServerAPI)
	mongoCli, err := mongo.Connect(mongoOpts)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err = mongoCli.Disconnect(ctx); err != nil {
			panic(err)
		}
	}()
	if err := mongoCli.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}
	h.MongoDB = mongoCli.Database(config.MONGO_DB)

	// init redis
	h.RedisCli = redis.NewClient(&redis.Options{
		Addr:     config.ENV.REDIS_ADDR,
		Username: config.ENV.REDIS_USERNAME,
		Password: config.ENV.REDIS_PASSWORD,
		DB:       0,
	})

	// init aws s3
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		panic(err)
	}
	h.S3Cli = s3.NewFromConfig(awsCfg)

	// init stripe
	h.StripeCli = stripe.NewClient(config.ENV.STRIPE_SECRET_KEY)

	router := chi.NewRouter()

	// Middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{config.ORIGIN},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestSize(1 << 20))

	authH := &auth.Handler{Handler: h}
	userH := &user.Handler{Handler: h}
	accountH := &account.Handler{Handler: h}
	roomH := &room.Handler{Handler: h}
	socialH := &social.Handler{Handler: h}
	paymentH := &payment.Handler{Handler: h}
	adminH := &admin.Handler{Handler: h}

	// auth endpoints
	router.Post("/auth/guest-login", authH.GuestLogin)
	router.Post("/auth/create-account", authH.CreateAccount)
	router.Post("/auth/password-login", authH.PasswordLogin)

	// user endpoints
	router.Get("/user", userH.GetUserData)
	router.Post("/user/change-nickname", h.AuthMiddleware(userH.ChangeNickname))

	// account lifecycle
	router.Post("/account/request-deletion", h.AuthMiddleware(accountH.RequestDeletion))
	router.Post("/account/heartbeat", h.AuthMiddleware(accountH.Heartbeat))
	router.Post("/account/offline", h.AuthMiddleware(accountH.GoOffline))

	// rooms
	router.Post("/room/create", h.AuthMiddleware(roomH.CreateRoom))

	// social
	router.Post("/feedback", h.AuthMiddleware(socialH.SubmitFeedback))
	router.Post("/survey", h.AuthMiddleware(socialH.SubmitSurvey))
	router.Post("/report/user", h.AuthMiddleware(socialH.ReportUser))
	router.Post("/report/room", h.AuthMiddleware(socialH.ReportRoom))

	// payment endpoints
	router.Post("/payment/create-checkout", h.AuthMiddleware(paymentH.CreateSlotCheckout))
	router.Post("/payment/create-subscription", h.AuthMiddleware(paymentH.CreateSubscription))
	router.Post("/payment/create-portal", h.AuthMiddleware(paymentH.CreatePortalSession))
	router.Post("/payment/stripe-webhook", paymentH.StripeWebhook)

	// admin endpoints, uniformly gated
	router.Get("/admin/users", h.AdminMiddleware(adminH.GetUsers))
	router.Post("/admin/recreate-user", h.AdminMiddleware(adminH.RecreateUser))
	router.Post("/admin/cleanup-now", h.AdminMiddleware(adminH.CleanupNow))
	router.Post("/admin/remove-ghost-users", h.AdminMiddleware(adminH.RemoveGhosts))
	router.Post("/admin/approve-deletion", h.AdminMiddleware(adminH.ApproveDeletion))
	router.Post("/admin/purge-archives", h.AdminMiddleware(adminH.PurgeArchives))

	logger.Info("Server running on port 8080")
	http.ListenAndServe(":8080", router)

}
