package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/common"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
)

const maxBodySize = 4 << 20

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the blog API over HTTP/JSON.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient validates baseURL and binds it to hc. A nil hc means
// http.DefaultClient.
func NewHTTPClient(baseURL string, hc *http.Client, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{baseURL: u, http: hc, log: log}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, payload any, header http.Header) (*rawResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: read body: %w", op, ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api call",
		logging.Op(op),
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: b}, nil
}

// decodeListing decodes a listing body and logs the entries it had to drop.
func (c *HTTPClient) decodeListing(ctx context.Context, op string, body []byte) (*models.Page, error) {
	page, skipped, err := decodePage(op, body)
	if err != nil {
		return nil, err
	}
	for _, verr := range skipped {
		c.log.Warn(ctx, "skipping invalid entry", logging.Op(op), logging.Err(verr))
	}
	return page, nil
}

// get performs a GET that must answer 2xx.
func (c *HTTPClient) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, op, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, mapStatus(op, resp.status, resp.body)
	}
	return resp.body, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	const op = "client.ListEntries"

	body, err := c.get(ctx, op, "/blog/", opts.Values())
	if err != nil {
		return nil, err
	}
	return c.decodeListing(ctx, op, body)
}

func (c *HTTPClient) SearchEntries(ctx context.Context, term string) ([]models.Entry, error) {
	const op = "client.SearchEntries"

	body, err := c.get(ctx, op, "/blog/search/", url.Values{"q": {term}})
	if err != nil {
		return nil, err
	}
	page, err := c.decodeListing(ctx, op, body)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *HTTPClient) ListUserEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error) {
	const op = "client.ListUserEntries"

	body, err := c.get(ctx, op, "/blog/user/"+strconv.FormatInt(uid, 10)+"/", opts.Values())
	if err != nil {
		return nil, err
	}
	return c.decodeListing(ctx, op, body)
}

func (c *HTTPClient) ListStarredEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error) {
	const op = "client.ListStarredEntries"

	body, err := c.get(ctx, op, "/blog/star/"+strconv.FormatInt(uid, 10)+"/", opts.Values())
	if err != nil {
		return nil, err
	}
	return c.decodeListing(ctx, op, body)
}

func (c *HTTPClient) GetEntry(ctx context.Context, id int64) (*models.EntryDetail, error) {
	const op = "client.GetEntry"

	body, err := c.get(ctx, op, "/blog/"+strconv.FormatInt(id, 10)+"/", nil)
	if err != nil {
		return nil, err
	}
	return decodeEntryDetail(op, body)
}

func (c *HTTPClient) UserInfo(ctx context.Context, uid int64) (*models.UserInfo, error) {
	const op = "client.UserInfo"

	body, err := c.get(ctx, op, "/user/"+strconv.FormatInt(uid, 10)+"/", nil)
	if err != nil {
		return nil, err
	}
	return decodeUserInfo(op, body)
}

func (c *HTTPClient) RequestCode(ctx context.Context, email string) (*models.CodeResponse, error) {
	const op = "client.RequestCode"

	resp, err := c.do(ctx, op, http.MethodPost, "/code", nil, models.CodeRequest{Email: email}, nil)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, mapStatus(op, resp.status, resp.body)
	}
	return decodeCodeResponse(op, resp.body)
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) (models.StepResponse, error) {
	const op = "client.SignUp"

	resp, err := c.do(ctx, op, http.MethodPost, "/srp/register", nil, req, nil)
	if err != nil {
		return models.StepResponse{}, err
	}
	step := decodeStep(resp.status, resp.body)
	if step.Token == "" {
		step.Token = bearerToken(resp.header.Get(common.AuthorizationHeaderName))
	}
	return step, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, token string, req models.ProfileRequest) (models.StepResponse, error) {
	const op = "client.CreateProfile"

	var header http.Header
	if token != "" {
		header = http.Header{}
		header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.do(ctx, op, http.MethodPost, "/user/", nil, req, header)
	if err != nil {
		return models.StepResponse{}, err
	}
	step := decodeStep(resp.status, resp.body)
	if step.Token == "" {
		step.Token = bearerToken(resp.header.Get(common.AuthorizationHeaderName))
	}
	if step.ID == 0 {
		step.ID = idFromLocation(resp.header.Get("Location"))
	}
	return step, nil
}

func bearerToken(h string) string {
	if strings.HasPrefix(h, common.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
	}
	return ""
}

// idFromLocation reads the trailing numeric segment of a Location header,
// e.g. "/user/42/".
func idFromLocation(loc string) int64 {
	segs := strings.Split(strings.Trim(loc, "/"), "/")
	if len(segs) == 0 {
		return 0
	}
	id, err := strconv.ParseInt(segs[len(segs)-1], 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// IsNetworkError reports whether err means the server could not be reached.
func IsNetworkError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	return errors.Is(err, ErrUnavailable)
}
