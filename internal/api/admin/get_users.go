package admin

import (
	"net/http"
	"strconv"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var sortableFields = map[string]string{
	"created":         "ctime",
	"nickname":        "nickname",
	"lastOnline":      "lastOnline",
	"totalOnlineTime": "totalOnlineTime",
	"tier":            "subscriptionTier",
}

// GetUsers is the operator's paginated view over the user collection.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}

	filter := bson.M{}
	if search := q.Get("search"); search != "" {
		filter["$or"] = []bson.M{
			{"nickname": bson.M{"$regex": search, "$options": "i"}},
			{"userId": search},
		}
	}
	if tier := q.Get("tier"); tier != "" {
		filter["subscriptionTier"] = tier
	}
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}

	sortField, ok := sortableFields[q.Get("sortBy")]
	if !ok {
		sortField = "ctime"
	}
	order := -1
	if q.Get("sortOrder") == "asc" {
		order = 1
	}

	total, err := h.MongoDB.Collection("users").CountDocuments(ctx, filter)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := h.MongoDB.Collection("users").Find(ctx, filter, opts)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	defer cursor.Close(ctx)

	var users []schemas.User
	if err := cursor.All(ctx, &users); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	type userRow struct {
		UserId          string `json:"userId"`
		Nickname        string `json:"nickname"`
		IsAnonymous     bool   `json:"isAnonymous"`
		Status          string `json:"status"`
		Tier            string `json:"tier"`
		TotalOnlineTime int64  `json:"totalOnlineTime"`
		OwnedRooms      int    `json:"ownedRooms"`
		DeletionStatus  string `json:"deletionStatus,omitempty"`
	}
	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = userRow{
			UserId:          u.UserId,
			Nickname:        u.Nickname,
			IsAnonymous:     u.IsAnonymous,
			Status:          u.Status,
			Tier:            u.Tier(),
			TotalOnlineTime: u.TotalOnlineTime,
			OwnedRooms:      len(u.OwnedRooms),
			DeletionStatus:  u.DeletionStatus,
		}
	}

	resParams.ResData = &struct {
		Users []userRow `json:"users"`
		Total int64     `json:"total"`
		Page  int       `json:"page"`
		Limit int       `json:"limit"`
	}{Users: rows, Total: total, Page: page, Limit: limit}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
