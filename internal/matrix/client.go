package matrix

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/motoki317/sc"
	"golang.org/x/oauth2"
	"resty.dev/v3"
)

// Options configures a Client. Guest marks Token as issued by
// RegisterGuest.
type Options struct {
	Homeserver  string
	Token       *oauth2.Token
	Guest       bool
	UserID      string
	HTTPTimeout time.Duration
	SyncTimeout time.Duration
	CacheDir    string
	Logger      *slog.Logger
}

// Client talks to a Matrix homeserver on behalf of a single user and knows
// the Cerulean conventions layered on top of plain rooms.
type Client struct {
	homeserver  *url.URL
	token       *oauth2.Token
	guest       bool
	client      *resty.Client
	syncTimeout time.Duration
	cacheDir    string
	logger      *slog.Logger

	mu             sync.Mutex
	userID         string
	timelineRoomID string

	Profiles   *sc.Cache[string, Profile]
	Thumbnails *sc.Cache[string, image.Image]
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	homeserver, err := url.Parse(opts.Homeserver)
	if err != nil {
		return nil, fmt.Errorf("parse homeserver url: %w", err)
	}

	if homeserver.Scheme == "" || homeserver.Host == "" {
		return nil, fmt.Errorf("homeserver url must be absolute: %q", opts.Homeserver)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{}
	if opts.Token != nil {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(opts.Token))
	}
	httpClient.Timeout = opts.HTTPTimeout

	c := &Client{
		homeserver:  homeserver,
		token:       opts.Token,
		guest:       opts.Guest,
		syncTimeout: opts.SyncTimeout,
		cacheDir:    opts.CacheDir,
		logger:      logger,
		userID:      opts.UserID,
		client: resty.NewWithClient(httpClient).
			SetBaseURL(strings.TrimRight(homeserver.String(), "/")).
			SetHeader("Accept", "application/json").
			AddResponseMiddleware(metricMiddleware),
	}

	c.Profiles, err = newProfilesStore(c)
	if err != nil {
		return nil, fmt.Errorf("create profiles store: %w", err)
	}

	c.Thumbnails, err = newThumbnailsStore(c)
	if err != nil {
		return nil, fmt.Errorf("create thumbnails store: %w", err)
	}

	return c, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// AccessToken returns the token of the logged-in user, or "" for a guest
// client. Guest tokens still authenticate requests.
func (c *Client) AccessToken() string {
	if c.token == nil || c.guest {
		return ""
	}

	return c.token.AccessToken
}

// UserID returns the logged-in user. It is empty until Whoami succeeds
// unless it was given in Options.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.userID
}

func (c *Client) Homeserver() *url.URL {
	u := *c.homeserver
	return &u
}

// Whoami resolves the user owning the access token.
func (c *Client) Whoami(ctx context.Context) (userID string, err error) {
	defer wrapf(&err, "whoami")

	type whoami struct {
		UserID string `json:"user_id"`
	}

	res, err := c.r(ctx).
		SetResult(&whoami{}).
		Get("/_matrix/client/v3/account/whoami")
	if err := checkResponse(res, err); err != nil {
		return "", err
	}

	userID = res.Result().(*whoami).UserID

	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()

	return userID, nil
}

// Login performs a password login and returns the issued token along with
// the canonical user ID.
func Login(ctx context.Context, homeserver, user, password string) (_ *oauth2.Token, userID string, err error) {
	defer wrapf(&err, "login as %s", user)

	type identifier struct {
		Type string `json:"type"`
		User string `json:"user"`
	}

	type loginRequest struct {
		Type                     string     `json:"type"`
		Identifier               identifier `json:"identifier"`
		Password                 string     `json:"password"`
		InitialDeviceDisplayName string     `json:"initial_device_display_name"`
	}

	type loginResponse struct {
		UserID      string `json:"user_id"`
		AccessToken string `json:"access_token"`
		DeviceID    string `json:"device_id"`
	}

	client := resty.New().SetBaseURL(strings.TrimRight(homeserver, "/"))
	defer func() { _ = client.Close() }()

	res, err := client.R().
		WithContext(ctx).
		SetBody(loginRequest{
			Type: "m.login.password",
			Identifier: identifier{
				Type: "m.id.user",
				User: user,
			},
			Password:                 password,
			InitialDeviceDisplayName: "lazycerulean",
		}).
		SetResult(&loginResponse{}).
		SetError(&Error{}).
		Post("/_matrix/client/v3/login")
	if err := checkResponse(res, err); err != nil {
		return nil, "", err
	}

	login := res.Result().(*loginResponse)
	if login.AccessToken == "" {
		return nil, "", errors.New("homeserver returned an empty access token")
	}

	return &oauth2.Token{
		AccessToken: login.AccessToken,
		TokenType:   "Bearer",
	}, login.UserID, nil
}

// RegisterGuest registers a guest account, which is enough to join and read
// world-readable timeline rooms.
func RegisterGuest(ctx context.Context, homeserver string) (_ *oauth2.Token, userID string, err error) {
	defer wrapf(&err, "register guest")

	type registerRequest struct {
		InitialDeviceDisplayName string `json:"initial_device_display_name"`
	}

	type registerResponse struct {
		UserID      string `json:"user_id"`
		AccessToken string `json:"access_token"`
		DeviceID    string `json:"device_id"`
	}

	client := resty.New().SetBaseURL(strings.TrimRight(homeserver, "/"))
	defer func() { _ = client.Close() }()

	res, err := client.R().
		WithContext(ctx).
		SetQueryParam("kind", "guest").
		SetBody(registerRequest{InitialDeviceDisplayName: "lazycerulean"}).
		SetResult(&registerResponse{}).
		SetError(&Error{}).
		Post("/_matrix/client/v3/register")
	if err := checkResponse(res, err); err != nil {
		return nil, "", err
	}

	register := res.Result().(*registerResponse)
	if register.AccessToken == "" {
		return nil, "", errors.New("homeserver returned an empty access token")
	}

	return &oauth2.Token{
		AccessToken: register.AccessToken,
		TokenType:   "Bearer",
	}, register.UserID, nil
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx).SetError(&Error{})
}

func wrapf(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = errors.Wrapf(*errp, format, args...)
	}
}
