package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyPgErrorCodes(t *testing.T) {
	cases := []struct {
		name      string
		code      string
		permanent bool
	}{
		{"numeric overflow", "22003", true},
		{"not null violation", "23502", true},
		{"unique violation", "23505", true},
		{"undefined table", "42P01", true},
		{"undefined column", "42703", true},
		{"connection failure", "08006", false},
		{"too many connections", "53300", false},
		{"shutdown in progress", "57P01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(&pgconn.PgError{Code: tc.code})
			if err.Permanent != tc.permanent {
				t.Fatalf("code %s: expected permanent=%v, got %v", tc.code, tc.permanent, err.Permanent)
			}
		})
	}
}

func TestClassifyConnectivityErrorsTransient(t *testing.T) {
	for _, err := range []error{
		context.DeadlineExceeded,
		driver.ErrBadConn,
		fmt.Errorf("write: %w", context.Canceled),
	} {
		if classify(err).Permanent {
			t.Fatalf("expected %v to be transient", err)
		}
	}
}

func TestClassifyUnknownErrorsDefaultTransient(t *testing.T) {
	if classify(errors.New("something odd")).Permanent {
		t.Fatal("unknown errors must default to transient")
	}
}

func TestIsPermanentUnwrapsFailure(t *testing.T) {
	inner := classify(&pgconn.PgError{Code: "23505"})
	wrapped := fmt.Errorf("insert session: %w", inner)
	if !IsPermanent(wrapped) {
		t.Fatal("expected wrapped permanent failure to be detected")
	}
	if IsPermanent(errors.New("bare")) {
		t.Fatal("bare errors carry no permanent verdict")
	}
}
