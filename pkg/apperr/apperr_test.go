package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidArgument, KindOf(InvalidArgument("bad id %q", "x")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", NotFound("video"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("toggle: %w", Conflict("reaction changed concurrently"))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFromStore(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want Kind
	}{
		{"not found", gorm.ErrRecordNotFound, KindNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, KindConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: reactions.kind"), KindConflict},
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_reaction_tuple" (SQLSTATE 23505)`), KindConflict},
		{"deadline", context.DeadlineExceeded, KindUnavailable},
		{"other", errors.New("driver: bad connection"), KindUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(FromStore("op", tc.in)))
		})
	}
	assert.Nil(t, FromStore("op", nil))

	already := NotFound("channel")
	assert.Same(t, already, FromStore("op", already))
}

func TestRetryableAndStatus(t *testing.T) {
	assert.True(t, IsRetryable(Conflict("x")))
	assert.True(t, IsRetryable(Unavailable("db", nil)))
	assert.False(t, IsRetryable(NotFound("x")))

	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(KindUnavailable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}
