package matrix

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"resty.dev/v3"
)

const (
	ErrCodeNotFound  = "M_NOT_FOUND"
	ErrCodeForbidden = "M_FORBIDDEN"
)

// Error is the standard error body of the client-server API.
type Error struct {
	StatusCode int    `json:"-"`
	ErrCode    string `json:"errcode"`
	Message    string `json:"error"`
}

func (e *Error) Error() string {
	if e.ErrCode == "" {
		return fmt.Sprintf("homeserver returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("homeserver returned %d %s: %s", e.StatusCode, e.ErrCode, e.Message)
}

func IsNotFound(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.ErrCode == ErrCodeNotFound || (e.ErrCode == "" && e.StatusCode == http.StatusNotFound)
}

func checkResponse(res *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !res.IsError() {
		return nil
	}

	e, ok := res.Error().(*Error)
	if !ok || e == nil {
		e = &Error{}
	}
	e.StatusCode = res.StatusCode()

	return e
}
