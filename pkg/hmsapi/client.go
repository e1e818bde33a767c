// Package hmsapi is the client for the HMS REST backend. The backend owns
// every business rule; this package only moves JSON and reports failures.
package hmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"kdsgroup.co.in/hms/models"
)

type ctxKey int

const tokenKey ctxKey = iota

// ContextWithToken attaches the upstream bearer token to ctx.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the bearer token carried by ctx, if any.
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// Client talks to the backend. There is no retry and no backoff; a failed
// call is terminal for that attempt.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type idBody struct {
	ID int `json:"Id"`
}

// Login exchanges credentials for an upstream token. It is the only call
// that does not need one.
func (c *Client) Login(ctx context.Context, userName, password string) (models.LoginResult, error) {
	body := map[string]string{"userName": userName, "password": password}
	var out models.LoginResult
	err := c.do(ctx, http.MethodPost, pathLogin, nil, body, &out, false)
	return out, err
}

func (c *Client) GetUserProfile(ctx context.Context, userID int) (models.UserProfile, error) {
	var out models.UserProfile
	if userID == 0 {
		return out, ErrMissingUserID
	}
	err := c.do(ctx, http.MethodGet, pathUserProfile, userQuery(userID), nil, &out, true)
	return out, err
}

func (c *Client) GetDistricts(ctx context.Context, userID int) ([]models.Location, error) {
	if userID == 0 {
		return nil, ErrMissingUserID
	}
	var raw models.LocationList
	if err := c.do(ctx, http.MethodGet, pathDistricts, userQuery(userID), nil, &raw, true); err != nil {
		return nil, err
	}
	return raw.Locations(models.LevelDistrict), nil
}

func (c *Client) GetBlocks(ctx context.Context, districtID int) ([]models.Location, error) {
	return c.children(ctx, pathBlocks, districtID, models.LevelBlock)
}

func (c *Client) GetGramPanchayats(ctx context.Context, blockID int) ([]models.Location, error) {
	return c.children(ctx, pathGramPanchayats, blockID, models.LevelGramPanchayat)
}

func (c *Client) GetVillages(ctx context.Context, gramPanchayatID int) ([]models.Location, error) {
	return c.children(ctx, pathVillages, gramPanchayatID, models.LevelVillage)
}

func (c *Client) children(ctx context.Context, path string, parentID int, level models.Level) ([]models.Location, error) {
	var raw models.LocationList
	if err := c.do(ctx, http.MethodPost, path, nil, idBody{ID: parentID}, &raw, true); err != nil {
		return nil, err
	}
	return raw.Locations(level), nil
}

func (c *Client) GetRequisitions(ctx context.Context, userID int) ([]models.Requisition, error) {
	return listByUser[models.Requisition](ctx, c, pathRequisitions, userID)
}

func (c *Client) GetComplaints(ctx context.Context, userID int) ([]models.Complaint, error) {
	return listByUser[models.Complaint](ctx, c, pathComplaints, userID)
}

func (c *Client) GetHandpumps(ctx context.Context, userID int) ([]models.Handpump, error) {
	return listByUser[models.Handpump](ctx, c, pathHandpumps, userID)
}

func (c *Client) GetEstimations(ctx context.Context, userID int) ([]models.Estimation, error) {
	return listByUser[models.Estimation](ctx, c, pathEstimations, userID)
}

func (c *Client) GetMBReports(ctx context.Context, userID int) ([]models.MBReport, error) {
	return listByUser[models.MBReport](ctx, c, pathMBReports, userID)
}

func listByUser[T any](ctx context.Context, c *Client, path string, userID int) ([]T, error) {
	if userID == 0 {
		return nil, ErrMissingUserID
	}
	var out []T
	if err := c.do(ctx, http.MethodGet, path, userQuery(userID), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Submission results are passed through untouched.

func (c *Client) InsertRequisitionDetails(ctx context.Context, in models.RequisitionInput) (json.RawMessage, error) {
	return c.submit(ctx, pathInsertRequisition, in)
}

func (c *Client) InsertRequisitionEstimation(ctx context.Context, in models.EstimationInput) (json.RawMessage, error) {
	return c.submit(ctx, pathInsertEstimation, in)
}

func (c *Client) UpdateMbItemsRemark(ctx context.Context, in models.MBRemarksInput) (json.RawMessage, error) {
	return c.submit(ctx, pathUpdateMBRemarks, in)
}

func (c *Client) InsertHandpumpVisitMonitoring(ctx context.Context, in models.VisitReport) (json.RawMessage, error) {
	return c.submit(ctx, pathInsertVisitReport, in)
}

func (c *Client) submit(ctx context.Context, path string, body any) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, path, nil, body, &out, true)
	return out, err
}

func userQuery(userID int) url.Values {
	return url.Values{"UserId": {strconv.Itoa(userID)}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	token := TokenFrom(ctx)
	if authed && token == "" {
		return ErrMissingToken
	}

	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hmsapi: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &APIError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	c.log.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	var env models.APIResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return &APIError{Path: path, StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func errorMessage(raw []byte, fallback string) string {
	var env struct {
		Message string `json:"message"`
		Title   string `json:"title"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Title != "" {
			return env.Title
		}
	}
	return fallback
}
