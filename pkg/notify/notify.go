package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Notifications are fire-and-forget: handlers enqueue onto a Redis list
// and the notifier binary drains it into SES. A failed send never blocks
// or reverses the workflow that requested it.

const Queue = "notifyq"

const (
	KindWelcome           = "welcome"
	KindFeedback          = "feedback"
	KindSurvey            = "survey"
	KindReport            = "report"
	KindDeletionReview    = "deletion_review"
	KindDeletionPending   = "deletion_pending"
	KindDeletionCompleted = "deletion_completed"
	KindDeletionReport    = "deletion_report"
	KindSubStarted        = "subscription_started"
	KindSubCanceled       = "subscription_canceled"
)

type Job struct {
	Kind string `json:"kind"`

	// empty To routes to the operator mailbox
	To string `json:"to,omitempty"`

	// Uid is set on jobs whose outcome is stamped back onto the user
	// record (currently only welcome emails)
	Uid string `json:"uid,omitempty"`

	Data map[string]string `json:"data,omitempty"`
}

func Enqueue(ctx context.Context, redisCli *redis.Client, job *Job) error {

	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return redisCli.LPush(ctx, Queue, raw).Err()

}
