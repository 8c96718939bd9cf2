package filter

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrDocumentInvalid = errors.New("document is not valid json")
var ErrInvalidTagType = errors.New("invalid tag type")

// Document is a ready-made query that is Keyed, Tagged and a JSONDocument.
type Document struct {
	key  string
	tags M
	body []byte
}

func NewDocument(key string, body []byte, tags M) *Document {
	if tags == nil {
		tags = make(M)
	}

	return &Document{key: key, tags: tags, body: body}
}

// ParseDocument reads a document from a JSON object of the form
//
//	{"key": "user:1", "tags": {"role": "staff"}, "body": {...}}
//
// The key must be a string and tags an object whose values are strings,
// numbers or booleans.
func ParseDocument(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrDocumentInvalid
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, errors.Wrap(ErrDocumentInvalid, "expected an object")
	}

	key := root.Get("key")
	if key.Exists() && key.Type != gjson.String {
		return nil, errors.Wrapf(ErrDocumentInvalid, "key must be a string, got %s", key.Type)
	}

	tags := root.Get("tags")
	if tags.Exists() && !tags.IsObject() {
		return nil, errors.Wrapf(ErrInvalidTagType, "tags must be an object, got %s", tags.Type)
	}

	d := &Document{
		key:  key.String(),
		tags: make(M),
	}

	var tagErr error
	tags.ForEach(func(name, value gjson.Result) bool {
		switch value.Type {
		case gjson.String, gjson.Number, gjson.True, gjson.False:
			d.tags[name.String()] = value.Value()
			return true
		default:
			tagErr = errors.Wrapf(ErrInvalidTagType, "tag %s has type %s", name.String(), value.Type)
			return false
		}
	})

	if tagErr != nil {
		return nil, tagErr
	}

	if body := root.Get("body"); body.Exists() {
		d.body = []byte(body.Raw)
	}

	return d, nil
}

func (d *Document) Key() string {
	return d.key
}

func (d *Document) Tags() M {
	return d.tags
}

func (d *Document) JSON() []byte {
	return d.body
}

func (d *Document) String() string {
	return d.key
}
