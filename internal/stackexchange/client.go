package stackexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// postFilter is the built-in API filter that adds body to posts.
	postFilter = "withbody"
)

type Client struct {
	baseURL string
	site    string
	key     string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds an API client for one site. requestsPerSecond <= 0
// disables local throttling.
func NewClient(baseURL, site, key string, httpClient *http.Client, requestsPerSecond float64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		site:    site,
		key:     key,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *Client) ListTags(ctx context.Context, page, pageSize int) (Page[Tag], error) {
	q := make(url.Values)
	q.Set("order", "desc")
	q.Set("sort", "popular")
	return getPage[Tag](ctx, c, "/tags", q, page, pageSize, "tags")
}

// ListQuestions lists questions carrying all of tags, ordered by sort.
func (c *Client) ListQuestions(ctx context.Context, tags []string, sort string, page, pageSize int) (Page[Question], error) {
	q := make(url.Values)
	q.Set("order", "desc")
	q.Set("sort", sort)
	q.Set("filter", postFilter)
	if len(tags) > 0 {
		q.Set("tagged", strings.Join(tags, ";"))
	}
	return getPage[Question](ctx, c, "/questions", q, page, pageSize, "questions")
}

func (c *Client) SearchQuestions(ctx context.Context, keywords string, page, pageSize int) (Page[Question], error) {
	q := make(url.Values)
	q.Set("order", "desc")
	q.Set("sort", "relevance")
	q.Set("filter", postFilter)
	q.Set("q", keywords)
	return getPage[Question](ctx, c, "/search/advanced", q, page, pageSize, "search results")
}

func (c *Client) QuestionsByIDs(ctx context.Context, ids []string, page, pageSize int) (Page[Question], error) {
	q := make(url.Values)
	q.Set("order", "desc")
	q.Set("sort", "activity")
	q.Set("filter", postFilter)
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		escaped = append(escaped, url.PathEscape(id))
	}
	path := "/questions/" + strings.Join(escaped, ";")
	return getPage[Question](ctx, c, path, q, page, pageSize, "questions by id")
}

func (c *Client) AnswersByQuestion(ctx context.Context, questionID int64, page, pageSize int) (Page[Answer], error) {
	q := make(url.Values)
	q.Set("order", "desc")
	q.Set("sort", "votes")
	q.Set("filter", postFilter)
	path := "/questions/" + strconv.FormatInt(questionID, 10) + "/answers"
	return getPage[Answer](ctx, c, path, q, page, pageSize, "answers")
}

func (c *Client) CommentsByQuestion(ctx context.Context, questionID int64, page, pageSize int) (Page[Comment], error) {
	path := "/questions/" + strconv.FormatInt(questionID, 10) + "/comments"
	return getPage[Comment](ctx, c, path, commentsQuery(), page, pageSize, "question comments")
}

func (c *Client) CommentsByAnswer(ctx context.Context, answerID int64, page, pageSize int) (Page[Comment], error) {
	path := "/answers/" + strconv.FormatInt(answerID, 10) + "/comments"
	return getPage[Comment](ctx, c, path, commentsQuery(), page, pageSize, "answer comments")
}

func commentsQuery() url.Values {
	q := make(url.Values)
	q.Set("order", "asc")
	q.Set("sort", "creation")
	q.Set("filter", postFilter)
	return q
}

func getPage[T any](ctx context.Context, c *Client, path string, q url.Values, page, pageSize int, resource string) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pagesize", strconv.Itoa(pageSize))

	if err := c.limiter.Wait(ctx); err != nil {
		return Page[T]{}, fmt.Errorf("list %s throttled: %w: %w", resource, ErrNetwork, err)
	}

	req, err := c.newRequest(ctx, path, q)
	if err != nil {
		return Page[T]{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Page[T]{}, fmt.Errorf("list %s request failed: %w: %w", resource, ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Page[T]{}, fmt.Errorf("list %s failed: %w: %w", resource, ErrNetwork, parseAPIError(resp.StatusCode, body))
	}

	var out Page[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Page[T]{}, fmt.Errorf("decode %s response: %w: %w", resource, ErrDecoding, err)
	}
	if out.ErrorID != 0 {
		return Page[T]{}, fmt.Errorf("list %s failed: %w: %w", resource, ErrNetwork, &APIError{
			StatusCode: resp.StatusCode,
			ID:         out.ErrorID,
			Name:       out.ErrorName,
			Message:    out.ErrorMessage,
		})
	}
	if out.QuotaRemaining < 0 {
		out.QuotaRemaining = 0
	}
	return out, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		ErrorID      int    `json:"error_id"`
		ErrorName    string `json:"error_name"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.ID = payload.ErrorID
		apiErr.Name = payload.ErrorName
		apiErr.Message = payload.ErrorMessage
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	q.Set("site", c.site)
	if c.key != "" {
		q.Set("key", c.key)
	}
	fullURL := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
