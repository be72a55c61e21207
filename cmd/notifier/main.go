package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/notify"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	DEFAULT_RATE_LIMIT       = 13
	DAY_LIMIT_WARN_THRESHOLD = 2000
)

type FailedJob struct {
	Kind  string `json:"kind"`
	To    string `json:"to"`
	Error string `json:"err"`
}

func sendJob(ctx context.Context, mongoDB *mongo.Database, sesCli *ses.Client, job *notify.Job) *FailedJob {

	to := job.To
	if to == "" {
		to = config.ENV.OPERATOR_EMAIL
	}

	subject, body, err := notify.Render(job)
	if err != nil {
		return &FailedJob{Kind: job.Kind, To: to, Error: err.Error()}
	}

	// welcome emails stamp their outcome onto the user record; the stamp
	// write is an upsert so a late send after deletion still leaves a trace
	isWelcome := job.Kind == notify.KindWelcome && job.Uid != ""
	if isWelcome {
		now := time.Now().UTC()
		if _, err := mongoDB.Collection("users").UpdateOne(ctx, bson.M{
			"userId": job.Uid,
		}, bson.M{
			"$set": bson.M{"userId": job.Uid, "welcomeEmailAttemptedAt": now},
		}, options.UpdateOne().SetUpsert(true)); err != nil {
			log.Printf("welcome attempt stamp failed for %s: %v", job.Uid, err)
		}
	}

	emailInput := &ses.SendEmailInput{
		Source: aws.String(config.ENV.EMAIL_SENDER),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	out, err := sesCli.SendEmail(ctx, emailInput)
	if err != nil {
		if isWelcome {
			if _, werr := mongoDB.Collection("users").UpdateOne(ctx, bson.M{
				"userId": job.Uid,
			}, bson.M{
				"$set": bson.M{"welcomeEmailSent": false, "welcomeEmailError": err.Error()},
			}); werr != nil {
				log.Printf("welcome failure stamp failed for %s: %v", job.Uid, werr)
			}
		}
		return &FailedJob{Kind: job.Kind, To: to, Error: err.Error()}
	}

	if isWelcome {
		set := bson.M{
			"welcomeEmailSent":   true,
			"welcomeEmailSentAt": time.Now().UTC(),
		}
		if out.MessageId != nil {
			set["welcomeEmailMessageId"] = *out.MessageId
		}
		if _, err := mongoDB.Collection("users").UpdateOne(ctx, bson.M{
			"userId": job.Uid,
		}, bson.M{
			"$set":   set,
			"$unset": bson.M{"welcomeEmailError": ""},
		}); err != nil {
			log.Printf("welcome success stamp failed for %s: %v", job.Uid, err)
		}
	}

	return nil

}

func main() {

	ctx := context.Background()

	// init mongo
	mongoServerAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(config.ENV.MONGO_URI).SetServerAPIOptions(mongoServerAPI)
	mongoCli, err := mongo.Connect(mongoOpts)
	if err != nil {
		panic(err)
	}
	defer mongoCli.Disconnect(ctx)
	mongoDB := mongoCli.Database(config.MONGO_DB)

	// init redis
	redisCli := redis.NewClient(&redis.Options{
		Addr:     config.ENV.REDIS_ADDR,
		Username: config.ENV.REDIS_USERNAME,
		Password: config.ENV.REDIS_PASSWORD,
		DB:       0,
	})

	// init aws ses
	sesCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		panic(err)
	}
	sesCli := ses.NewFromConfig(sesCfg)

	lastQuotaCheck := time.Time{}
	rateLimit := DEFAULT_RATE_LIMIT

	fmt.Println("Starting notification dispatcher")

	// main loop
	for {
		// check for daily quota usage
		if time.Since(lastQuotaCheck) > time.Minute*10 {
			quota, err := sesCli.GetSendQuota(ctx, &ses.GetSendQuotaInput{})
			if err != nil {
				log.Printf("GetSendQuota error: %v", err)
				time.Sleep(time.Second * 10)
			} else {
				rateLimit = max(DEFAULT_RATE_LIMIT, int(math.Floor(quota.MaxSendRate)))
				dailyRemaining := int(quota.Max24HourSend - quota.SentLast24Hours)
				if dailyRemaining < DAY_LIMIT_WARN_THRESHOLD {
					log.Printf("Only %d emails remaining for 24 hours! Backing off...", dailyRemaining)
					time.Sleep(time.Minute * 5)
				}
			}
			lastQuotaCheck = time.Now()
		}

		// check for queued notifications
		rawJobs, err := redisCli.RPopCount(ctx, notify.Queue, rateLimit).Result()
		if err == redis.Nil {
			time.Sleep(time.Second * 10) // nothing queued, sleep
			continue
		} else if err != nil {
			log.Printf("Redis RPopCount error: %v", err)
			time.Sleep(time.Minute) // brief backoff
			continue
		}

		start := time.Now()

		// send notifications
		for _, raw := range rawJobs {
			var job notify.Job
			if err := json.Unmarshal([]byte(raw), &job); err != nil {
				log.Printf("Bad job payload dropped: %v", err)
				continue
			}
			failed := sendJob(ctx, mongoDB, sesCli, &job)
			if failed != nil {
				data, _ := json.Marshal(failed)
				log.Printf("Notification failed %s", data)

				// keep track of failed notification
				if err := redisCli.RPush(ctx, "failed_notifications", data).Err(); err != nil {
					log.Printf("Couldn't push to failed notification list %s, %v", failed.To, err)
				}
			}
		}

		// avoid ses rate limit
		elapsed := time.Since(start)
		if remaining := time.Second - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}

	}

}
