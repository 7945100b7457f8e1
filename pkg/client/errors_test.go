package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server envelope", &APIError{StatusCode: 404, Message: "user not found"}, "user not found"},
		{"wrapped server envelope", fmt.Errorf("list: %w", &APIError{StatusCode: 409, Message: "exists"}), "exists"},
		{"plain text body", &APIError{StatusCode: 400, Message: "Search query is required."}, "Search query is required."},
		{"empty body", &APIError{StatusCode: 502}, unexpectedMessage},
		{"transport", &NetworkError{Err: errors.New("dial tcp: connection refused")}, networkMessage},
		{"anything else", errors.New("boom"), unexpectedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
