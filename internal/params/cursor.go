package params

import (
	"errors"
	"fmt"
	"time"

	"discovery/internal/domain/reviews"

	"github.com/speps/go-hashids/v2"
)

var ErrMalformedCursor = errors.New("malformed cursor")

// CursorCodec turns a (created_at, id) position into an opaque token and back.
type CursorCodec struct {
	hd *hashids.HashID
}

func NewCursorCodec(salt string) (*CursorCodec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 12

	hd, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("cursor codec: %w", err)
	}
	return &CursorCodec{hd: hd}, nil
}

func (c *CursorCodec) Encode(cur reviews.Cursor) (string, error) {
	micros := cur.CreatedAt.UnixMicro()
	if micros < 0 || cur.ID < 0 {
		return "", fmt.Errorf("%w: negative position", ErrMalformedCursor)
	}
	token, err := c.hd.EncodeInt64([]int64{micros, cur.ID})
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return token, nil
}

func (c *CursorCodec) Decode(token string) (reviews.Cursor, error) {
	parts, err := c.hd.DecodeInt64WithError(token)
	if err != nil || len(parts) != 2 {
		return reviews.Cursor{}, ErrMalformedCursor
	}
	return reviews.Cursor{
		CreatedAt: time.UnixMicro(parts[0]).UTC(),
		ID:        parts[1],
	}, nil
}
