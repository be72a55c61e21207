package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Feedback struct {
	Id      bson.ObjectID `bson:"_id,omitempty"`
	Uid     string        `bson:"uid,omitempty"`
	Message string        `bson:"message"`
	Ctime   time.Time     `bson:"ctime"`
}

type SurveyResponse struct {
	Id      bson.ObjectID     `bson:"_id,omitempty"`
	Uid     string            `bson:"uid,omitempty"`
	Answers map[string]string `bson:"answers"`
	Ctime   time.Time         `bson:"ctime"`
}

type Report struct {
	Id         bson.ObjectID `bson:"_id,omitempty"`
	ReporterId string        `bson:"reporterId"`
	TargetId   string        `bson:"targetId"`
	Reason     string        `bson:"reason"`
	Details    string        `bson:"details,omitempty"`
	Ctime      time.Time     `bson:"ctime"`
}
