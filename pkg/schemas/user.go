package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Subscription struct {
	Tier              string     `bson:"tier,omitempty" json:"tier,omitempty"`
	Status            string     `bson:"status,omitempty" json:"status,omitempty"`
	CustomerId        string     `bson:"customerId,omitempty" json:"customerId,omitempty"`
	PriceId           string     `bson:"priceId,omitempty" json:"priceId,omitempty"`
	SubscriptionId    string     `bson:"subscriptionId,omitempty" json:"subscriptionId,omitempty"`
	CurrentPeriodEnd  *time.Time `bson:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool       `bson:"cancelAtPeriodEnd" json:"cancelAtPeriodEnd"`
	CancelAt          *time.Time `bson:"cancelAt,omitempty" json:"cancelAt,omitempty"`
}

// Purchase entries are append-only. Slot counters may only ever grow; a
// refund is handled by support, never by rewriting history here.
type Purchase struct {
	EventId  string    `bson:"eventId"`
	PriceId  string    `bson:"priceId"`
	Quantity int64     `bson:"quantity"`
	At       time.Time `bson:"at"`
}

type User struct {
	Id       bson.ObjectID `bson:"_id,omitempty"`
	UserId   string        `bson:"userId,omitempty"`
	Ctime    time.Time     `bson:"ctime,omitempty"`
	Nickname string        `bson:"nickname,omitempty"`
	Avatar   string        `bson:"avatar,omitempty"`
	Level    int           `bson:"level,omitempty"`
	IsAdmin  bool          `bson:"isAdmin,omitempty"`

	IsAnonymous bool `bson:"isAnonymous,omitempty"`

	OnlineState         bool       `bson:"onlineState"`
	Status              string     `bson:"status,omitempty"`
	LastOnline          *time.Time `bson:"lastOnline,omitempty"`
	CurrentSessionStart *time.Time `bson:"currentSessionStart,omitempty"`
	TotalOnlineTime     int64      `bson:"totalOnlineTime,omitempty"`

	OwnedRooms []string        `bson:"ownedRooms,omitempty"`
	Rooms      map[string]bool `bson:"rooms,omitempty"`

	StripeCustomer   string       `bson:"stripeCustomer,omitempty"`
	SubscriptionTier string       `bson:"subscriptionTier,omitempty"`
	Subscription     Subscription `bson:"subscription,omitempty"`
	RoomSlots        int64        `bson:"roomSlots,omitempty"`
	Purchases        []Purchase   `bson:"purchases,omitempty"`

	DeletionStatus    string     `bson:"deletionStatus,omitempty"`
	DeletionRequested *time.Time `bson:"deletionRequested,omitempty"`
	DeletionReason    string     `bson:"deletionReason,omitempty"`

	WelcomeEmailSent        bool       `bson:"welcomeEmailSent,omitempty"`
	WelcomeEmailAttemptedAt *time.Time `bson:"welcomeEmailAttemptedAt,omitempty"`
	WelcomeEmailError       string     `bson:"welcomeEmailError,omitempty"`
	WelcomeEmailSentAt      *time.Time `bson:"welcomeEmailSentAt,omitempty"`
	WelcomeEmailMessageId   string     `bson:"welcomeEmailMessageId,omitempty"`
}

// Tier resolves the effective subscription tier, treating absence as free.
// Older records carried the tier only on the nested subscription object.
func (u *User) Tier() string {
	if u.SubscriptionTier != "" {
		return u.SubscriptionTier
	}
	if u.Subscription.Tier != "" {
		return u.Subscription.Tier
	}
	return "free"
}
