package server_test

import (
	"testing"

	"commerce-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      server.Config
		wantAddr string
		wantAuth bool
	}{
		{"Default", server.Config{Port: "8080"}, ":8080", false},
		{"WithKey", server.Config{Port: "9000", ApiKey: "secret"}, ":9000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAddr, tt.cfg.Addr())
			assert.Equal(t, tt.wantAuth, tt.cfg.AuthEnabled())
		})
	}
}
