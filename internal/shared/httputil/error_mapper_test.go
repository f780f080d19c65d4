package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errGone = errors.New("gone")

func TestErrorMapperMap(t *testing.T) {
	mapper := NewErrorMapper().
		WithMapping(errGone, http.StatusGone, "gone").
		WithDefault(http.StatusBadGateway, "upstream")

	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("wrapped: %w", errGone), http.StatusGone},
		{fmt.Errorf("slow: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := mapper.Map(tc.err).Status; got != tc.status {
			t.Fatalf("Map(%v) = %d, expected %d", tc.err, got, tc.status)
		}
	}
}
