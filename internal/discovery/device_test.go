package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	device := &Device{
		Name:    "Living Room TV",
		Address: "192.168.1.20:8060",
	}

	expected := "Living Room TV at 192.168.1.20:8060"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name:     "standard ECP port",
			device:   &Device{Address: "192.168.1.20:8060"},
			expected: "http://192.168.1.20:8060",
		},
		{
			name:     "custom port",
			device:   &Device{Address: "10.0.0.5:9000"},
			expected: "http://10.0.0.5:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.BaseURL(); got != tt.expected {
				t.Errorf("Device.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}
