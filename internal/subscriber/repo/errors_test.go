package repo

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: ErrUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrUnavailable},
		{name: "pq connection failure", err: &pq.Error{Code: "08006"}, want: ErrUnavailable},
		{name: "pq admin shutdown", err: &pq.Error{Code: "57P01"}, want: ErrUnavailable},
		{name: "pq unique violation", err: &pq.Error{Code: "23505"}, want: ErrConflict},
		{name: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: ErrUnavailable},
		{name: "sqlite constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestWrapError_Unclassified(t *testing.T) {
	assert.Nil(t, wrapError(nil))

	plain := errors.New("syntax error")
	got := wrapError(plain)
	assert.Same(t, plain, got)
	assert.NotErrorIs(t, got, ErrUnavailable)
	assert.NotErrorIs(t, got, ErrConflict)

	syntax := &pq.Error{Code: "42601"}
	assert.NotErrorIs(t, wrapError(syntax), ErrUnavailable)
}
