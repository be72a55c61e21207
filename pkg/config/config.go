package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ORIGIN   = "http://localhost:5173"
	MONGO_DB = "ToonsTalkDev"

	// sentinel identity that receives ownership of rooms left behind by deleted users
	SYSTEM_ADMIN_ID = "SYSTEM_ADMIN"

	TIER_FREE     = "free"
	TIER_LANDLORD = "landlord"
	TIER_CREATOR  = "creator"

	DELETION_STATUS_NONE    = ""
	DELETION_STATUS_PENDING = "pending_review"

	ARCHIVE_STATUS_ARCHIVED = "archived"
	ARCHIVE_STATUS_PENDING  = "pending_review"
	ARCHIVE_STATUS_APPROVED = "approved"

	CHECKOUT_TYPE_ROOM_SLOT    = "room_slot"
	CHECKOUT_SESSION_DURATION  = 30 * time.Minute
	PRICE_ID_ROOM_SLOT         = "price_1SK4ZGBmoCe1wac3RoomSlot"

	BASE_ROOM_LIMIT = 3

	// deleted accounts stay recoverable for this long before the daily purge
	// removes their archive for good
	ARCHIVE_RETENTION = 30 * 24 * time.Hour

	// anonymous accounts idle at least this long become sweep candidates
	STALE_ANONYMOUS_AFTER = 30 * time.Minute

	// sessions outside (0, MAX_SESSION_SECONDS) are discarded as clock noise
	MAX_SESSION_SECONDS = 86400

	PRESENCE_TTL = 60 * time.Second
)

// subscription price ids, maintained by hand against the Stripe dashboard
const (
	PRICE_ID_LANDLORD_MONTHLY = "price_1SK4YXBmoCe1wac303G15iyR"
	PRICE_ID_LANDLORD_YEARLY  = "price_1SK4YXBmoCe1wac3LndYr01"
	PRICE_ID_CREATOR_MONTHLY  = "price_1SK4YXBmoCe1wac3CrtMo01"
	PRICE_ID_CREATOR_YEARLY   = "price_1SK4YXBmoCe1wac3CrtYr01"
)

var PriceTiers = map[string]string{
	PRICE_ID_LANDLORD_MONTHLY: TIER_LANDLORD,
	PRICE_ID_LANDLORD_YEARLY:  TIER_LANDLORD,
	PRICE_ID_CREATOR_MONTHLY:  TIER_CREATOR,
	PRICE_ID_CREATOR_YEARLY:   TIER_CREATOR,
}

// Field sets a user document may shrink to once the disconnect writer has
// fired against a deleted account. Two call sites grew two variants; both
// live here so neither drifts again. Which one is authoritative is still a
// product decision.
var (
	GhostFieldAllowlist = []string{
		"onlineState",
		"status",
		"userId",
		"lastOnline",
		"welcomeEmailSent",
		"welcomeEmailAttemptedAt",
		"welcomeEmailError",
		"welcomeEmailSentAt",
		"welcomeEmailMessageId",
	}

	GhostFieldAllowlistOnDemand = []string{
		"onlineState",
		"status",
		"userId",
	}
)

type EnvVars struct {
	MONGO_URI             string
	REDIS_ADDR            string
	REDIS_USERNAME        string
	REDIS_PASSWORD        string
	JWT_SECRET            string
	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	EMAIL_SENDER          string
	OPERATOR_EMAIL        string
	AVATAR_BUCKET         string
	BASE_URL              string

	// zero disables the age gate on instant self-deletion
	MIN_ACCOUNT_AGE_FOR_INSTANT_DELETE time.Duration
}

var ENV *EnvVars

func init() {

	prod := os.Getenv("ENV") == "prod"

	if !prod {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
			return
		}
	}

	minAgeDays := 0
	if raw := os.Getenv("MIN_ACCOUNT_AGE_DAYS_FOR_INSTANT_DELETE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("invalid MIN_ACCOUNT_AGE_DAYS_FOR_INSTANT_DELETE: %v", err)
		}
		minAgeDays = n
	}

	ENV = &EnvVars{
		MONGO_URI:             os.Getenv("MONGO_URI"),
		REDIS_ADDR:            os.Getenv("REDIS_ADDR"),
		REDIS_USERNAME:        os.Getenv("REDIS_USERNAME"),
		REDIS_PASSWORD:        os.Getenv("REDIS_PASSWORD"),
		JWT_SECRET:            os.Getenv("JWT_SECRET"),
		STRIPE_SECRET_KEY:     os.Getenv("STRIPE_SECRET_KEY"),
		STRIPE_WEBHOOK_SECRET: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		EMAIL_SENDER:          os.Getenv("EMAIL_SENDER"),
		OPERATOR_EMAIL:        os.Getenv("OPERATOR_EMAIL"),
		AVATAR_BUCKET:         os.Getenv("AVATAR_BUCKET"),
		BASE_URL:              os.Getenv("BASE_URL"),

		MIN_ACCOUNT_AGE_FOR_INSTANT_DELETE: time.Duration(minAgeDays) * 24 * time.Hour,
	}

}
