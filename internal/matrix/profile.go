package matrix

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/motoki317/sc"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

func init() {
	// TODO: https://github.com/tdewolff/canvas/issues/372
	image.RegisterFormat("svg", "<svg", func(r io.Reader) (image.Image, error) {
		c, err := canvas.ParseSVG(r)
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		img := rasterizer.Draw(c, 96.0, canvas.DefaultColorSpace)
		return img, nil
	}, func(r io.Reader) (image.Config, error) {
		c, err := canvas.ParseSVG(r)
		if err != nil {
			return image.Config{}, fmt.Errorf("parse svg: %w", err)
		}

		return image.Config{
			ColorModel: color.RGBAModel,
			Width:      int(c.W),
			Height:     int(c.H),
		}, nil
	})
}

type Profile struct {
	AvatarURL   string `json:"avatar_url,omitempty"`
	DisplayName string `json:"displayname,omitempty"`
}

// GetProfile returns a copy of the user's profile, so callers may rewrite
// its fields freely.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := c.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// ThumbnailLink turns an mxc:// URI into a thumbnail download link. Other
// references are returned untouched.
func (c *Client) ThumbnailLink(ref, method string, width, height int) string {
	serverName, mediaID, ok := parseMXC(ref)
	if !ok {
		return ref
	}

	u := c.Homeserver()
	u.Path = path.Join(u.Path, "/_matrix/client/v1/media/thumbnail", serverName, mediaID)
	u.RawQuery = url.Values{
		"width":  {strconv.Itoa(width)},
		"height": {strconv.Itoa(height)},
		"method": {method},
	}.Encode()

	return u.String()
}

// Thumbnail downloads and decodes the image behind a link built by
// ThumbnailLink.
func (c *Client) Thumbnail(ctx context.Context, link string) (image.Image, error) {
	return c.Thumbnails.Get(ctx, link)
}

func parseMXC(ref string) (serverName, mediaID string, ok bool) {
	rest, found := strings.CutPrefix(ref, "mxc://")
	if !found {
		return "", "", false
	}

	serverName, mediaID, ok = strings.Cut(rest, "/")
	if !ok || serverName == "" || mediaID == "" {
		return "", "", false
	}

	return serverName, mediaID, true
}

func newProfilesStore(c *Client) (*sc.Cache[string, Profile], error) {
	freshFor := time.Minute * 5
	ttl := time.Minute * 10

	return sc.New(func(ctx context.Context, userID string) (profile Profile, err error) {
		defer wrapf(&err, "get profile of %s", userID)

		res, err := c.r(ctx).
			SetPathParam("userID", userID).
			SetResult(&Profile{}).
			Get("/_matrix/client/v3/profile/{userID}")
		if err := checkResponse(res, err); err != nil {
			return Profile{}, err
		}

		return *res.Result().(*Profile), nil
	}, freshFor, ttl)
}

func newThumbnailsStore(c *Client) (*sc.Cache[string, image.Image], error) {
	freshFor := time.Minute * 5
	ttl := time.Minute * 10

	return sc.New(func(ctx context.Context, link string) (_ image.Image, err error) {
		defer wrapf(&err, "get thumbnail %s", link)

		cacheFile := ""
		if c.cacheDir != "" {
			thumbnailDir := path.Join(c.cacheDir, "thumbnails")
			if err := os.MkdirAll(thumbnailDir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("create thumbnail cache dir: %w", err)
			}

			cacheFile = path.Join(thumbnailDir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String())
			if b, err := os.ReadFile(cacheFile); err == nil {
				img, _, err := image.Decode(bytes.NewReader(b))
				if err == nil {
					return img, nil
				}

				c.logger.Warn("discard broken cached thumbnail", "file", cacheFile, "error", err)
			}
		}

		res, err := c.r(ctx).Get(link)
		if err := checkResponse(res, err); err != nil {
			return nil, err
		}

		b := res.Bytes()
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode thumbnail: %w", err)
		}

		if cacheFile != "" {
			if err := os.WriteFile(cacheFile, b, 0o600); err != nil {
				c.logger.Warn("cache thumbnail", "file", cacheFile, "error", err)
			}
		}

		return img, nil
	}, freshFor, ttl)
}
