package agentplatform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		address string
		target  string
		secure  bool
	}{
		{"localhost:50051", "localhost:50051", false},
		{"  10.0.0.7:9000 ", "10.0.0.7:9000", false},
		{"[::1]:50051", "[::1]:50051", false},
		{"http://cp.internal:50051", "cp.internal:50051", false},
		{"http://cp.internal", "cp.internal:80", false},
		{"https://cp.example.com", "cp.example.com:443", true},
		{"https://cp.example.com:8443/", "cp.example.com:8443", true},
		{"dns:///cp.internal:50051", "dns:///cp.internal:50051", false},
		{"passthrough:///bufnet", "passthrough:///bufnet", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			target, creds, err := parseAddress(tt.address)
			require.NoError(t, err)
			assert.Equal(t, tt.target, target)
			if tt.secure {
				assert.Equal(t, "tls", creds.Info().SecurityProtocol)
			} else {
				assert.Equal(t, "insecure", creds.Info().SecurityProtocol)
			}
		})
	}
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	for _, address := range []string{
		"",
		"   ",
		"localhost",
		"localhost:",
		"localhost:0",
		"localhost:70000",
		"localhost:http",
		"http://",
		"http://host:50051/api",
		"https://host:notaport",
	} {
		t.Run(address, func(t *testing.T) {
			_, _, err := parseAddress(address)
			assert.Error(t, err)
		})
	}
}
