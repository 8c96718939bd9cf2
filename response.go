package filter

import (
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

var ErrUnknownResponse = errors.New("unknown filter response")

// Response is the answer a Filter gives to a query.
// The zero value is Abstain.
type Response uint8

const (
	Abstain Response = iota
	Allow
	Deny
)

func FromBool(v bool) Response {
	if v {
		return Allow
	}

	return Deny
}

// ToBool converts r into a boolean, asking abstain only when r is Abstain.
func (r Response) ToBool(abstain func() bool) bool {
	switch r {
	case Allow:
		return true
	case Deny:
		return false
	default:
		return abstain()
	}
}

// Inverse swaps Allow and Deny. Abstain has no inverse and is returned as is.
func (r Response) Inverse() Response {
	switch r {
	case Allow:
		return Deny
	case Deny:
		return Allow
	default:
		return r
	}
}

func (r Response) Valid() bool {
	return r <= Deny
}

func (r Response) String() string {
	switch r {
	case Allow:
		return "allow"
	case Abstain:
		return "abstain"
	case Deny:
		return "deny"
	default:
		return "response(" + strconv.Itoa(int(r)) + ")"
	}
}

func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, nil
	case "abstain":
		return Abstain, nil
	case "deny":
		return Deny, nil
	default:
		return Abstain, errors.Wrapf(ErrUnknownResponse, "%q", s)
	}
}

func (r Response) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.Wrapf(ErrUnknownResponse, "%d", uint8(r))
	}

	return []byte(r.String()), nil
}

func (r *Response) UnmarshalText(text []byte) error {
	parsed, err := ParseResponse(string(text))
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}
