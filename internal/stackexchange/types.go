package stackexchange

import (
	"strconv"
	"time"
)

// Owner is the shallow user attached to every post.
type Owner struct {
	UserID       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	Reputation   int    `json:"reputation"`
	ProfileImage string `json:"profile_image"`
	Link         string `json:"link"`
}

// Question is the subset of question fields used by the app.
type Question struct {
	ID               int64    `json:"question_id"`
	Title            string   `json:"title"`
	Link             string   `json:"link"`
	Body             string   `json:"body"`
	Tags             []string `json:"tags"`
	Score            int      `json:"score"`
	AnswerCount      int      `json:"answer_count"`
	ViewCount        int      `json:"view_count"`
	IsAnswered       bool     `json:"is_answered"`
	AcceptedAnswerID int64    `json:"accepted_answer_id"`
	CreationDate     int64    `json:"creation_date"`
	Owner            Owner    `json:"owner"`

	IsFavorite bool `json:"-"`
}

func (q Question) Created() time.Time {
	return time.Unix(q.CreationDate, 0).UTC()
}

// FavoriteKey is the identifier stored in the favorite questions set.
func (q Question) FavoriteKey() string {
	return strconv.FormatInt(q.ID, 10)
}

func (q Question) WithFavorite(v bool) Question {
	q.IsFavorite = v
	return q
}

type Answer struct {
	ID           int64  `json:"answer_id"`
	QuestionID   int64  `json:"question_id"`
	Body         string `json:"body"`
	Score        int    `json:"score"`
	IsAccepted   bool   `json:"is_accepted"`
	CreationDate int64  `json:"creation_date"`
	Owner        Owner  `json:"owner"`
}

func (a Answer) Created() time.Time {
	return time.Unix(a.CreationDate, 0).UTC()
}

type Comment struct {
	ID           int64  `json:"comment_id"`
	PostID       int64  `json:"post_id"`
	Body         string `json:"body"`
	Score        int    `json:"score"`
	CreationDate int64  `json:"creation_date"`
	Owner        Owner  `json:"owner"`
}

func (c Comment) Created() time.Time {
	return time.Unix(c.CreationDate, 0).UTC()
}

type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`

	IsFavorite bool `json:"-"`
}

func (t Tag) FavoriteKey() string {
	return t.Name
}

func (t Tag) WithFavorite(v bool) Tag {
	t.IsFavorite = v
	return t
}

// Page is the common wrapper returned by every API method.
type Page[T any] struct {
	Items          []T    `json:"items"`
	HasMore        bool   `json:"has_more"`
	QuotaMax       int    `json:"quota_max"`
	QuotaRemaining int    `json:"quota_remaining"`
	Backoff        int    `json:"backoff"`
	ErrorID        int    `json:"error_id"`
	ErrorName      string `json:"error_name"`
	ErrorMessage   string `json:"error_message"`
}
